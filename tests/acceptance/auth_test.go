package acceptance

import (
	"net/http"

	"github.com/gamarriando/user-service/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "test@example.com",
		Username:  "testuser",
		Password:  "Password123!",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var registered dto.RegisterResponse
	s.decodeData(resp, &registered)

	s.NotZero(registered.UserID)
	s.Equal("test@example.com", registered.Email)
	s.Equal("testuser", registered.Username)
	s.False(registered.IsVerified)
	s.NotEmpty(registered.VerificationToken, "debug mode should echo the verification token")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.registerUser("duplicate@example.com", "first", "Password123!")

	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "duplicate@example.com",
		Username:  "second",
		Password:  "Password123!",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_DuplicateEmailDifferentCase() {
	s.registerUser("mixedcase@example.com", "caseone", "Password123!")

	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "MixedCase@Example.COM",
		Username:  "casetwo",
		Password:  "Password123!",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_DuplicateUsername() {
	s.registerUser("userone@example.com", "sameusername", "Password123!")

	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "usertwo@example.com",
		Username:  "sameusername",
		Password:  "Password123!",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "invalid-email",
		Username:  "validuser",
		Password:  "Password123!",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     "weak@example.com",
		Username:  "weakuser",
		Password:  "short",
		FirstName: "Test",
		LastName:  "User",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.registerUser("login@example.com", "loginuser", "Password123!")

	auth := s.login("login@example.com", "Password123!")

	s.NotEmpty(auth.AccessToken)
	s.NotEmpty(auth.RefreshToken)
	s.Equal("Bearer", auth.TokenType)
	s.Equal(15*60, auth.ExpiresIn)
	s.Equal("login@example.com", auth.User.Email)
	s.NotZero(auth.SessionID)
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "Password123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.registerUser("wrongpass@example.com", "wrongpass", "Password123!")

	resp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogin_DeactivatedUser() {
	registered := s.registerUser("inactive@example.com", "inactiveuser", "Password123!")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET is_active = FALSE WHERE id = $1`, registered.UserID)
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "inactive@example.com",
		Password: "Password123!",
	})
	defer resp.Body.Close()

	// Deactivated accounts fail exactly like bad credentials
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_Success() {
	s.registerUser("refresh@example.com", "refreshuser", "Password123!")
	auth := s.login("refresh@example.com", "Password123!")

	resp := s.postJSON("/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: auth.RefreshToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var refreshed dto.AuthResponse
	s.decodeData(resp, &refreshed)
	s.NotEmpty(refreshed.AccessToken)
	s.NotEmpty(refreshed.RefreshToken)
}

func (s *Suite) TestRefresh_WithAccessToken() {
	s.registerUser("wrongtype@example.com", "wrongtype", "Password123!")
	auth := s.login("wrongtype@example.com", "Password123!")

	resp := s.postJSON("/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: auth.AccessToken,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_Garbage() {
	resp := s.postJSON("/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: "not-a-token",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesSessions() {
	s.registerUser("logout@example.com", "logoutuser", "Password123!")
	auth := s.login("logout@example.com", "Password123!")
	s.login("logout@example.com", "Password123!")

	resp := s.postJSON("/api/v1/auth/logout", auth.AccessToken, struct{}{})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var revoked dto.RevokeAllResponse
	s.decodeData(resp, &revoked)
	s.Equal(int64(2), revoked.SessionsRevoked)
}

func (s *Suite) TestLogout_RequiresAuth() {
	resp := s.postJSON("/api/v1/auth/logout", "", struct{}{})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestVerifyEmail_FullFlow() {
	registered := s.registerUser("verify@example.com", "verifyuser", "Password123!")
	s.Require().NotEmpty(registered.VerificationToken)

	resp := s.postJSON(
		s.userPath(registered.UserID, "/verify-email"), "",
		dto.VerifyEmailRequest{Token: registered.VerificationToken},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	auth := s.login("verify@example.com", "Password123!")
	s.True(auth.User.IsVerified)
}

func (s *Suite) TestVerifyEmail_TokenIsSingleUse() {
	registered := s.registerUser("onceverify@example.com", "onceverify", "Password123!")

	resp1 := s.postJSON(
		s.userPath(registered.UserID, "/verify-email"), "",
		dto.VerifyEmailRequest{Token: registered.VerificationToken},
	)
	resp1.Body.Close()
	s.Equal(http.StatusOK, resp1.StatusCode)

	resp2 := s.postJSON(
		s.userPath(registered.UserID, "/verify-email"), "",
		dto.VerifyEmailRequest{Token: registered.VerificationToken},
	)
	defer resp2.Body.Close()

	// A second redeem hits the already-verified guard
	s.Equal(http.StatusConflict, resp2.StatusCode)
}

func (s *Suite) TestVerifyEmail_WrongUser() {
	registered := s.registerUser("target@example.com", "targetuser", "Password123!")
	other := s.registerUser("other@example.com", "otheruser", "Password123!")

	resp := s.postJSON(
		s.userPath(other.UserID, "/verify-email"), "",
		dto.VerifyEmailRequest{Token: registered.VerificationToken},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRegisterLoginChangePasswordFlow() {
	registered := s.registerUser("journey@example.com", "journeyuser", "Password123!")
	auth := s.login("journey@example.com", "Password123!")

	resp := s.postJSON(
		s.userPath(registered.UserID, "/change-password"), auth.AccessToken,
		dto.ChangePasswordRequest{
			CurrentPassword: "Password123!",
			NewPassword:     "NewPassword456!",
		},
	)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	oldResp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "journey@example.com",
		Password: "Password123!",
	})
	oldResp.Body.Close()
	s.Equal(http.StatusUnauthorized, oldResp.StatusCode)

	s.login("journey@example.com", "NewPassword456!")
}
