package model

import "encoding/json"

// Recipient is one broadcast target. Callers may submit either a bare phone
// string or a {phone, name} object; both decode into this struct.
type Recipient struct {
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

func (r *Recipient) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var phone string
		if err := json.Unmarshal(b, &phone); err != nil {
			return err
		}
		r.Phone = phone
		r.Name = ""
		return nil
	}

	type plain Recipient
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Recipient(p)
	return nil
}
