package acceptance

import (
	"net/http"

	"github.com/gamarriando/user-service/internal/dto"
)

func (s *Suite) TestGetUser_OwnProfile() {
	s.registerUser("profile@example.com", "profileuser", "Password123!")
	auth := s.login("profile@example.com", "Password123!")

	resp := s.getJSON(s.userPath(auth.User.ID, ""), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	s.decodeData(resp, &user)
	s.Equal("profile@example.com", user.Email)
	s.Equal("profileuser", user.Username)
	s.True(user.IsActive)
}

func (s *Suite) TestGetUser_OtherProfileForbidden() {
	s.registerUser("snoop@example.com", "snoopuser", "Password123!")
	auth := s.login("snoop@example.com", "Password123!")
	target := s.registerUser("hidden@example.com", "hiddenuser", "Password123!")

	resp := s.getJSON(s.userPath(target.UserID, ""), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestGetUser_AdminCanReadAnyone() {
	admin := s.registerAdmin("readadmin@example.com", "readadmin", "Password123!")
	target := s.registerUser("readable@example.com", "readableuser", "Password123!")

	resp := s.getJSON(s.userPath(target.UserID, ""), admin.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestUpdateUser_PartialUpdate() {
	s.registerUser("update@example.com", "updateuser", "Password123!")
	auth := s.login("update@example.com", "Password123!")

	firstName := "Updated"
	phone := "+34600111222"
	resp := s.putJSON(s.userPath(auth.User.ID, ""), auth.AccessToken, dto.UpdateUserRequest{
		FirstName: &firstName,
		Phone:     &phone,
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	s.decodeData(resp, &user)
	s.Equal("Updated", user.FirstName)
	s.Require().NotNil(user.Phone)
	s.Equal("+34600111222", *user.Phone)
	// Untouched fields stay put
	s.Equal("User", user.LastName)
}

func (s *Suite) TestListUsers_AdminOnly() {
	s.registerUser("lister@example.com", "listeruser", "Password123!")
	auth := s.login("lister@example.com", "Password123!")

	resp := s.getJSON("/api/v1/users", auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestListUsers_PaginationAndSearch() {
	admin := s.registerAdmin("listadmin@example.com", "listadmin", "Password123!")
	s.registerUser("alice@example.com", "alicesearch", "Password123!")
	s.registerUser("bob@example.com", "bobsearch", "Password123!")

	resp := s.getJSON("/api/v1/users?limit=2&offset=0", admin.AccessToken)
	var page dto.UserListResponse
	s.decodeData(resp, &page)
	resp.Body.Close()
	s.Equal(2, page.Limit)
	s.Len(page.Users, 2)
	s.Equal(3, page.Total)

	searchResp := s.getJSON("/api/v1/users?search=alicesearch", admin.AccessToken)
	defer searchResp.Body.Close()

	var found dto.UserListResponse
	s.decodeData(searchResp, &found)
	s.Require().Len(found.Users, 1)
	s.Equal("alicesearch", found.Users[0].Username)
}

func (s *Suite) TestDeactivateUser_AdminOnly() {
	s.registerUser("wannabe@example.com", "wannabe", "Password123!")
	auth := s.login("wannabe@example.com", "Password123!")
	target := s.registerUser("safe@example.com", "safeuser", "Password123!")

	resp := s.deleteJSON(s.userPath(target.UserID, ""), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestDeactivateUser_SoftDelete() {
	admin := s.registerAdmin("deladmin@example.com", "deladmin", "Password123!")
	target := s.registerUser("doomed@example.com", "doomeduser", "Password123!")
	s.login("doomed@example.com", "Password123!")

	resp := s.deleteJSON(s.userPath(target.UserID, ""), admin.AccessToken)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The row survives with is_active false
	var isActive bool
	err := s.Postgres.DB.QueryRow(`SELECT is_active FROM users WHERE id = $1`, target.UserID).Scan(&isActive)
	s.Require().NoError(err)
	s.False(isActive)

	// And the account can no longer log in
	loginResp := s.postJSON("/api/v1/auth/login", "", dto.LoginRequest{
		Email:    "doomed@example.com",
		Password: "Password123!",
	})
	defer loginResp.Body.Close()
	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)
}

func (s *Suite) TestDeactivateUser_Twice() {
	admin := s.registerAdmin("twicedel@example.com", "twicedel", "Password123!")
	target := s.registerUser("twice@example.com", "twiceuser", "Password123!")

	first := s.deleteJSON(s.userPath(target.UserID, ""), admin.AccessToken)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.deleteJSON(s.userPath(target.UserID, ""), admin.AccessToken)
	defer second.Body.Close()
	s.Equal(http.StatusConflict, second.StatusCode)
}

func (s *Suite) TestDeactivateUser_SelfForbidden() {
	admin := s.registerAdmin("selfdel@example.com", "selfdel", "Password123!")

	resp := s.deleteJSON(s.userPath(admin.User.ID, ""), admin.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestChangePassword_WrongCurrent() {
	s.registerUser("badcurrent@example.com", "badcurrent", "Password123!")
	auth := s.login("badcurrent@example.com", "Password123!")

	resp := s.postJSON(
		s.userPath(auth.User.ID, "/change-password"), auth.AccessToken,
		dto.ChangePasswordRequest{
			CurrentPassword: "NotMyPassword1!",
			NewPassword:     "NewPassword456!",
		},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestChangePassword_AdminSkipsCurrent() {
	admin := s.registerAdmin("pwadmin@example.com", "pwadmin", "Password123!")
	target := s.registerUser("managed@example.com", "manageduser", "Password123!")

	resp := s.postJSON(
		s.userPath(target.UserID, "/change-password"), admin.AccessToken,
		dto.ChangePasswordRequest{NewPassword: "AdminSet456!"},
	)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	s.login("managed@example.com", "AdminSet456!")
}
