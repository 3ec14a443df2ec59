package api

// Service paths.
const (
	PathEncrypt = "/api/encrypt"
	PathDecrypt = "/api/decrypt"
	PathDerive  = "/api/derive"
	PathHealth  = "/healthz"
)

// Multipart form field names used by /api/encrypt and /api/decrypt.
const (
	FieldTranscript = "pgn"
	FieldMessage    = "message"
	FieldCover      = "cover"
	FieldFile       = "file"
	FieldPrivateKey = "private_key"
)

// Files inside the archive returned by /api/encrypt.
const (
	ArchiveImage      = "stego.png"
	ArchivePrivateKey = "private_key.txt"
)

// DeriveRequest represents the POST /api/derive request.
type DeriveRequest struct {
	Input      string `json:"input"`
	Mode       string `json:"mode,omitempty"`     // "transcript" (default) or "password"
	SaltHex    string `json:"salt_hex,omitempty"` // hex-encoded salt
	Engine     string `json:"engine,omitempty"`   // "spn" (default) or "game"
	Plies      int    `json:"plies,omitempty"`
	Iterations int    `json:"iterations,omitempty"`
	Robust     bool   `json:"robust,omitempty"`
}

// DeriveResponse represents the POST /api/derive response.
type DeriveResponse struct {
	Key    string `json:"key"` // hex, 64 characters
	Engine string `json:"engine"`
	Robust bool   `json:"robust"`
}

// EncryptRequest holds the form fields for POST /api/encrypt.
type EncryptRequest struct {
	Transcript string
	Message    string
	// Cover is an optional PNG or JPEG cover image. The server's configured
	// cover is used when empty.
	Cover []byte
}

// DecryptRequest holds the form fields for POST /api/decrypt.
type DecryptRequest struct {
	// File is either the archive returned by Encrypt or a bare stego PNG.
	File []byte
	// Filename is sent with File. A ".zip" suffix marks an archive.
	Filename   string
	PrivateKey string // hex
	Transcript string
}

// DecryptResponse represents the POST /api/decrypt response.
type DecryptResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the GET /healthz response.
type HealthResponse struct {
	Status string `json:"status"`
	Suite  string `json:"suite,omitempty"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}
