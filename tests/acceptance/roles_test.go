package acceptance

import (
	"fmt"
	"net/http"

	"github.com/gamarriando/user-service/internal/dto"
)

func (s *Suite) TestGrantRole_Success() {
	admin := s.registerAdmin("admin@example.com", "adminuser", "Password123!")
	target := s.registerUser("vendor@example.com", "vendoruser", "Password123!")

	resp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "vendor"},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var roles dto.RoleListResponse
	s.decodeData(resp, &roles)
	s.Equal(target.UserID, roles.UserID)
	s.Require().Len(roles.Roles, 1)
	s.Equal("vendor", roles.Roles[0].RoleName)
	s.True(roles.Roles[0].IsActive)
}

func (s *Suite) TestGrantRole_DuplicateConflict() {
	admin := s.registerAdmin("admin2@example.com", "adminuser2", "Password123!")
	target := s.registerUser("dupgrant@example.com", "dupgrant", "Password123!")

	first := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "moderator"},
	)
	first.Body.Close()
	s.Equal(http.StatusCreated, first.StatusCode)

	second := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "moderator"},
	)
	defer second.Body.Close()

	s.Equal(http.StatusConflict, second.StatusCode)
}

func (s *Suite) TestGrantRole_UnknownRole() {
	admin := s.registerAdmin("admin3@example.com", "adminuser3", "Password123!")
	target := s.registerUser("badrole@example.com", "badrole", "Password123!")

	resp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "superhero"},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestGrantRole_NonAdminForbidden() {
	s.registerUser("plain@example.com", "plainuser", "Password123!")
	auth := s.login("plain@example.com", "Password123!")
	target := s.registerUser("grantee@example.com", "grantee", "Password123!")

	resp := s.postJSON(
		s.userPath(target.UserID, "/roles"), auth.AccessToken,
		dto.GrantRoleRequest{RoleName: "vendor"},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestGrantRole_SelfGrantForbidden() {
	admin := s.registerAdmin("selfgrant@example.com", "selfgrant", "Password123!")

	resp := s.postJSON(
		s.userPath(admin.User.ID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "moderator"},
	)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestRevokeRole_ThenRegrant() {
	admin := s.registerAdmin("admin4@example.com", "adminuser4", "Password123!")
	target := s.registerUser("cycle@example.com", "cycleuser", "Password123!")

	grantResp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "vendor"},
	)
	var granted dto.RoleListResponse
	s.decodeData(grantResp, &granted)
	grantResp.Body.Close()
	s.Require().Len(granted.Roles, 1)
	grantID := granted.Roles[0].ID

	revokeResp := s.deleteJSON(
		s.userPath(target.UserID, fmt.Sprintf("/roles/%d", grantID)), admin.AccessToken,
	)
	var afterRevoke dto.RoleListResponse
	s.decodeData(revokeResp, &afterRevoke)
	revokeResp.Body.Close()
	s.Empty(afterRevoke.Roles)

	// The partial unique index only guards active grants, so the same role
	// can be granted again after a revoke
	regrantResp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "vendor"},
	)
	defer regrantResp.Body.Close()
	s.Equal(http.StatusCreated, regrantResp.StatusCode)
}

func (s *Suite) TestRevokeRole_TwiceConflicts() {
	admin := s.registerAdmin("admin5@example.com", "adminuser5", "Password123!")
	target := s.registerUser("doublerevoke@example.com", "doublerevoke", "Password123!")

	grantResp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "customer"},
	)
	var granted dto.RoleListResponse
	s.decodeData(grantResp, &granted)
	grantResp.Body.Close()
	grantID := granted.Roles[0].ID

	first := s.deleteJSON(s.userPath(target.UserID, fmt.Sprintf("/roles/%d", grantID)), admin.AccessToken)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.deleteJSON(s.userPath(target.UserID, fmt.Sprintf("/roles/%d", grantID)), admin.AccessToken)
	defer second.Body.Close()
	s.Equal(http.StatusConflict, second.StatusCode)
}

func (s *Suite) TestRevokeRole_UnknownGrant() {
	admin := s.registerAdmin("admin6@example.com", "adminuser6", "Password123!")
	target := s.registerUser("nogrant@example.com", "nogrant", "Password123!")

	resp := s.deleteJSON(s.userPath(target.UserID, "/roles/99999"), admin.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestListRoles_OwnRoles() {
	s.registerUser("ownroles@example.com", "ownroles", "Password123!")
	auth := s.login("ownroles@example.com", "Password123!")

	resp := s.getJSON(s.userPath(auth.User.ID, "/roles"), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var roles dto.RoleListResponse
	s.decodeData(resp, &roles)
	s.Equal(auth.User.ID, roles.UserID)
	s.Empty(roles.Roles)
}

func (s *Suite) TestListRoles_OtherUserForbidden() {
	s.registerUser("nosy@example.com", "nosyuser", "Password123!")
	auth := s.login("nosy@example.com", "Password123!")
	target := s.registerUser("private@example.com", "privateuser", "Password123!")

	resp := s.getJSON(s.userPath(target.UserID, "/roles"), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

// A token minted before a grant change keeps deciding with its embedded
// roles until it expires or is refreshed
func (s *Suite) TestRolesReachTokenOnRefresh() {
	admin := s.registerAdmin("admin7@example.com", "adminuser7", "Password123!")
	target := s.registerUser("promoted@example.com", "promoted", "Password123!")
	targetAuth := s.login("promoted@example.com", "Password123!")
	s.Empty(targetAuth.User.Roles)

	grantResp := s.postJSON(
		s.userPath(target.UserID, "/roles"), admin.AccessToken,
		dto.GrantRoleRequest{RoleName: "admin"},
	)
	grantResp.Body.Close()
	s.Equal(http.StatusCreated, grantResp.StatusCode)

	// The pre-grant token still lacks the role
	listResp := s.getJSON("/api/v1/users", targetAuth.AccessToken)
	listResp.Body.Close()
	s.Equal(http.StatusForbidden, listResp.StatusCode)

	// Refreshing re-reads grants from the store
	refreshResp := s.postJSON("/api/v1/auth/refresh", "", dto.RefreshRequest{
		RefreshToken: targetAuth.RefreshToken,
	})
	var refreshed dto.AuthResponse
	s.decodeData(refreshResp, &refreshed)
	refreshResp.Body.Close()
	s.Contains(refreshed.User.Roles, "admin")

	listAgain := s.getJSON("/api/v1/users", refreshed.AccessToken)
	defer listAgain.Body.Close()
	s.Equal(http.StatusOK, listAgain.StatusCode)
}

func (s *Suite) TestRoleCatalog_ListsAllRoles() {
	s.registerUser("catalog@example.com", "cataloguser", "Password123!")
	auth := s.login("catalog@example.com", "Password123!")

	resp := s.getJSON("/api/v1/roles", auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var catalog dto.RoleCatalogResponse
	s.decodeData(resp, &catalog)
	s.Equal(4, catalog.Total)

	names := make([]string, 0, len(catalog.Roles))
	for _, role := range catalog.Roles {
		names = append(names, role.Name)
		s.NotEmpty(role.Description)
		s.NotEmpty(role.Permissions)
	}
	s.ElementsMatch([]string{"admin", "customer", "vendor", "moderator"}, names)
}

func (s *Suite) TestRoleCatalog_RequiresAuth() {
	resp := s.getJSON("/api/v1/roles", "")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
