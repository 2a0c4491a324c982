package dto

// UploadHandleResponse is returned by POST /api/objects/upload.
type UploadHandleResponse struct {
	UploadURL  string `json:"uploadURL"`
	ObjectPath string `json:"objectPath"`
}

// UploadResultResponse is returned once bytes are stored.
type UploadResultResponse struct {
	Message    string `json:"message"`
	RemotePath string `json:"remotePath"`
}
