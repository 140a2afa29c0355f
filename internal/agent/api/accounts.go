// В этом файле описаны методы клиента для работы с эндпоинтами
// учётной записи: создание, вход, чтение и изменение профиля.
package api

// CreateUserRequest описывает тело запроса создания учётной записи.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// User — профиль пользователя, как его отдаёт сервер.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse описывает ответ сервера при успешном входе.
type LoginResponse struct {
	Token string `json:"token"`
}

// UpdateMeRequest — частичное обновление профиля. nil-поля не отправляются.
type UpdateMeRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// CreateUser создаёт учётную запись (POST /api/user/create).
func (c *Client) CreateUser(email, password, name string) (User, error) {
	var resp User
	err := c.PostJSON("/api/user/create", CreateUserRequest{Email: email, Password: password, Name: name}, &resp, "")
	return resp, err
}

// Login обменивает email и пароль на токен (POST /api/user/login).
func (c *Client) Login(email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.PostJSON("/api/user/login", LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Me запрашивает профиль владельца токена (GET /api/user/me).
func (c *Client) Me(token string) (User, error) {
	var resp User
	err := c.GetJSON("/api/user/me", &resp, token)
	return resp, err
}

// UpdateMe меняет переданные поля профиля (PATCH /api/user/me).
func (c *Client) UpdateMe(token string, req UpdateMeRequest) (User, error) {
	var resp User
	err := c.PatchJSON("/api/user/me", req, &resp, token)
	return resp, err
}
