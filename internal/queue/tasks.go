package queue

const TypeVideoTranscribe = "video:transcribe"

// VideoTranscribePayload identifies one spooled upload to transcribe.
type VideoTranscribePayload struct {
	UploadID     string `json:"upload_id"`
	IdentityKind string `json:"identity_kind"`
	IdentityID   string `json:"identity_id"`
	Filename     string `json:"filename"`
	SpoolPath    string `json:"spool_path"`
}
