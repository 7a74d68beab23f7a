package jwt

type Role int

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type User struct {
	Id    string `json:"id"`
	Email string `json:"email"`
}
