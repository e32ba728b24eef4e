package request

type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,max=30,username"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"first_name" validate:"required,max=100,personname"`
	LastName  string `json:"last_name" validate:"required,max=100,personname"`
}

type TokenPairRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenAccessRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
