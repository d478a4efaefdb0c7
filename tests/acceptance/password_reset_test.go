package acceptance

import (
	"net/http"

	"github.com/gamarriando/user-service/internal/dto"
)

func (s *Suite) TestForgotPassword_KnownEmail() {
	s.registerUser("reset@example.com", "resetuser", "Password123!")

	resp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "reset@example.com",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var forgot dto.ForgotPasswordResponse
	s.decodeData(resp, &forgot)
	s.Equal("reset@example.com", forgot.Email)
	s.NotZero(forgot.ExpiresIn)
	s.NotEmpty(forgot.ResetToken, "debug mode should echo the reset token")
}

// The response for an unknown email is indistinguishable from a known one,
// except that no token can exist behind it
func (s *Suite) TestForgotPassword_UnknownEmailSameShape() {
	resp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "nobody@example.com",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var forgot dto.ForgotPasswordResponse
	s.decodeData(resp, &forgot)
	s.Equal("nobody@example.com", forgot.Email)
	s.NotZero(forgot.ExpiresIn)
	s.Empty(forgot.ResetToken)
}

func (s *Suite) TestResetPassword_FullFlow() {
	s.registerUser("fullreset@example.com", "fullreset", "Password123!")

	forgotResp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "fullreset@example.com",
	})
	var forgot dto.ForgotPasswordResponse
	s.decodeData(forgotResp, &forgot)
	forgotResp.Body.Close()
	s.Require().NotEmpty(forgot.ResetToken)

	resetResp := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "BrandNew456!",
	})
	resetResp.Body.Close()
	s.Equal(http.StatusOK, resetResp.StatusCode)

	oldLogin := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "fullreset@example.com",
		Password: "Password123!",
	})
	oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	s.login("fullreset@example.com", "BrandNew456!")
}

func (s *Suite) TestResetPassword_TokenIsSingleUse() {
	s.registerUser("singleuse@example.com", "singleuse", "Password123!")

	forgotResp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "singleuse@example.com",
	})
	var forgot dto.ForgotPasswordResponse
	s.decodeData(forgotResp, &forgot)
	forgotResp.Body.Close()

	first := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "FirstReset456!",
	})
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "SecondReset789!",
	})
	defer second.Body.Close()

	s.Equal(http.StatusUnauthorized, second.StatusCode)

	// The password from the first redeem still stands
	s.login("singleuse@example.com", "FirstReset456!")
}

func (s *Suite) TestResetPassword_UnknownToken() {
	resp := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       "completely-made-up-token",
		NewPassword: "Whatever456!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestResetPassword_ExpiredToken() {
	registered := s.registerUser("expired@example.com", "expireduser", "Password123!")

	forgotResp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "expired@example.com",
	})
	var forgot dto.ForgotPasswordResponse
	s.decodeData(forgotResp, &forgot)
	forgotResp.Body.Close()

	_, err := s.Postgres.DB.Exec(
		`UPDATE password_reset_tokens SET expires_at = NOW() - INTERVAL '1 minute' WHERE user_id = $1`,
		registered.UserID,
	)
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "TooLate456!",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestResetPassword_WeakNewPassword() {
	s.registerUser("weakreset@example.com", "weakreset", "Password123!")

	forgotResp := s.postJSON("/api/v1/auth/forgot-password", "", dto.ForgotPasswordRequest{
		Email: "weakreset@example.com",
	})
	var forgot dto.ForgotPasswordResponse
	s.decodeData(forgotResp, &forgot)
	forgotResp.Body.Close()

	resp := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "weak",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	// A rejected password leaves the token redeemable
	retry := s.postJSON("/api/v1/auth/reset-password", "", dto.ResetPasswordRequest{
		Token:       forgot.ResetToken,
		NewPassword: "StrongEnough456!",
	})
	retry.Body.Close()
	s.Equal(http.StatusOK, retry.StatusCode)
}
