package entity

type Author struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}
