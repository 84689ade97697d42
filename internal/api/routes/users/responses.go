package users

type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type UploadAvatarResponse struct {
	Image string `json:"image"`
}
