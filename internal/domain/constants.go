package domain

// Business validation constants
const (
	MaxLocationLength       = 255
	MaxParticipantCount     = 1000
	MaxTrainersPerFanOut    = 50
	InvoiceNumberLength     = 10
	InvoiceNumberAlphabet   = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	InvoiceNumberPrefix     = "INV-"
	InvoiceDateOffsetInDays = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
