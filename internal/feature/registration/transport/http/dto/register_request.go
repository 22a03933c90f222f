// Package dto defines data transfer objects for the registration feature's HTTP transport layer.
package dto

// RegisterReq represents the form body of the /register endpoint.
// Rules are enforced by the usecase so that every violation can be reported at once,
// hence no binding tags here. Missing fields bind as empty strings.
type RegisterReq struct {
	Username string `form:"username"`
	Name     string `form:"name"`
	Gender   string `form:"gender"`
	Password string `form:"password"`
}

// RegisterRes is the JSON body returned for every outcome of a registration.
type RegisterRes struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	UserID  uint     `json:"user_id,omitempty"`
}
