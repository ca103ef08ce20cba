package dto

type GenerateUploadURLResponse struct {
	StorageId string `json:"storage_id"`
	UploadURL string `json:"upload_url"`
}

type ResolveFileURLResponse struct {
	StorageId string `json:"storage_id"`
	URL       string `json:"url"`
}
