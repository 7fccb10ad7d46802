package model

type ChannelInfo struct {
	Id         uint8  `json:"id"`
	Instrument string `json:"instrument"`
	IsDrum     bool   `json:"is_drum"`
}

type MidiInfoResponse struct {
	Channels []ChannelInfo `json:"channels"`
}

type ConversionRequest struct {
	Filename   string   `json:"filename"`
	Soundfonts []string `json:"soundfonts"`
}

type ConversionResponse struct {
	Formula string `json:"formula"`
}

type HarmonicResponse struct {
	Harmonics []float32 `json:"harmonics"`
}

type UploadResponse struct {
	Filename                string `json:"filename"`
	ExpiresInMinutes        int    `json:"expires_in_minutes"`
	RefreshThresholdMinutes int    `json:"refresh_threshold_minutes"`
}

type RefreshFileRequest struct {
	Filename string `json:"filename"`
}

type SoundfontListResponse struct {
	Soundfonts []string `json:"soundfonts"`
}

type StatusResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
