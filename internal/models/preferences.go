package models

// Preferences is the accumulated filtering criteria for one session.
type Preferences struct {
	Taboos       string   `json:"taboos"`
	DislikedTags []string `json:"dislikedTags"`
}

// Clone returns a copy that shares no backing storage with p.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Taboos:       p.Taboos,
		DislikedTags: append([]string(nil), p.DislikedTags...),
	}
}
