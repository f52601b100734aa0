package request

// UpdateSettingRequest is the payload for storing a system setting.
// Encrypt requests encryption-at-rest for secret values.
type UpdateSettingRequest struct {
	Value   string `json:"value"`
	Encrypt bool   `json:"encrypt"`
}
