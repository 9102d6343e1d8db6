package devices

// Card is a badge the simulated reader can produce.
type Card struct {
	ID     string
	Holder string
}

// DefaultRoster is the badge list used for simulated scans.
var DefaultRoster = []Card{
	{ID: "RF-1001", Holder: "Amira Haddad"},
	{ID: "RF-1002", Holder: "Jonas Berg"},
	{ID: "RF-1003", Holder: "Priya Raman"},
	{ID: "RF-1004", Holder: "Tomás Ortega"},
	{ID: "RF-1005", Holder: "Mei Lin"},
	{ID: "RF-1006", Holder: "Kwame Mensah"},
}

func (c Card) Subject() string {
	return c.Holder + " (" + c.ID + ")"
}
