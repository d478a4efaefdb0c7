package acceptance

import (
	"fmt"
	"net/http"

	"github.com/gamarriando/user-service/internal/dto"
)

func (s *Suite) TestListSessions_OrderedByLastAccess() {
	s.registerUser("sessions@example.com", "sessionsuser", "Password123!")
	s.login("sessions@example.com", "Password123!")
	auth := s.login("sessions@example.com", "Password123!")

	resp := s.getJSON(s.userPath(auth.User.ID, "/sessions"), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var sessions dto.SessionListResponse
	s.decodeData(resp, &sessions)
	s.Equal(2, sessions.Total)
	s.Require().Len(sessions.Sessions, 2)
	s.GreaterOrEqual(sessions.Sessions[0].LastAccessedAt, sessions.Sessions[1].LastAccessedAt)
}

func (s *Suite) TestListSessions_ExpiredExcluded() {
	s.registerUser("expire@example.com", "expireuser", "Password123!")
	auth := s.login("expire@example.com", "Password123!")
	s.login("expire@example.com", "Password123!")

	_, err := s.Postgres.DB.Exec(
		`UPDATE user_sessions SET expires_at = NOW() - INTERVAL '1 minute' WHERE id = $1`,
		auth.SessionID,
	)
	s.Require().NoError(err)

	resp := s.getJSON(s.userPath(auth.User.ID, "/sessions"), auth.AccessToken)
	defer resp.Body.Close()

	var sessions dto.SessionListResponse
	s.decodeData(resp, &sessions)
	s.Equal(1, sessions.Total)
}

func (s *Suite) TestRevokeSession_Success() {
	s.registerUser("revoke@example.com", "revokeuser", "Password123!")
	auth := s.login("revoke@example.com", "Password123!")

	resp := s.deleteJSON(fmt.Sprintf("/api/v1/sessions/%d", auth.SessionID), auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	listResp := s.getJSON(s.userPath(auth.User.ID, "/sessions"), auth.AccessToken)
	defer listResp.Body.Close()

	var sessions dto.SessionListResponse
	s.decodeData(listResp, &sessions)
	s.Equal(0, sessions.Total)
}

func (s *Suite) TestRevokeSession_Unknown() {
	s.registerUser("norevoke@example.com", "norevoke", "Password123!")
	auth := s.login("norevoke@example.com", "Password123!")

	resp := s.deleteJSON("/api/v1/sessions/99999", auth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

// Revoking someone else's session answers not-found, the same as a session
// that does not exist
func (s *Suite) TestRevokeSession_OtherUsers() {
	s.registerUser("victim@example.com", "victimuser", "Password123!")
	victimAuth := s.login("victim@example.com", "Password123!")

	s.registerUser("attacker@example.com", "attackeruser", "Password123!")
	attackerAuth := s.login("attacker@example.com", "Password123!")

	resp := s.deleteJSON(fmt.Sprintf("/api/v1/sessions/%d", victimAuth.SessionID), attackerAuth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)

	// The victim's session is untouched
	listResp := s.getJSON(s.userPath(victimAuth.User.ID, "/sessions"), victimAuth.AccessToken)
	defer listResp.Body.Close()

	var sessions dto.SessionListResponse
	s.decodeData(listResp, &sessions)
	s.Equal(1, sessions.Total)
}

func (s *Suite) TestRevokeAllSessions_OnlyTargetsUser() {
	s.registerUser("bulk@example.com", "bulkuser", "Password123!")
	bulkAuth := s.login("bulk@example.com", "Password123!")
	s.login("bulk@example.com", "Password123!")
	s.login("bulk@example.com", "Password123!")

	s.registerUser("bystander@example.com", "bystander", "Password123!")
	bystanderAuth := s.login("bystander@example.com", "Password123!")

	resp := s.deleteJSON(s.userPath(bulkAuth.User.ID, "/sessions"), bulkAuth.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var revoked dto.RevokeAllResponse
	s.decodeData(resp, &revoked)
	s.Equal(int64(3), revoked.SessionsRevoked)

	// The bystander keeps their session
	listResp := s.getJSON(s.userPath(bystanderAuth.User.ID, "/sessions"), bystanderAuth.AccessToken)
	defer listResp.Body.Close()

	var sessions dto.SessionListResponse
	s.decodeData(listResp, &sessions)
	s.Equal(1, sessions.Total)
}

func (s *Suite) TestAdminCanListOtherUsersSessions() {
	admin := s.registerAdmin("sessionadmin@example.com", "sessionadmin", "Password123!")

	s.registerUser("watched@example.com", "watcheduser", "Password123!")
	watchedAuth := s.login("watched@example.com", "Password123!")

	resp := s.getJSON(s.userPath(watchedAuth.User.ID, "/sessions"), admin.AccessToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var sessions dto.SessionListResponse
	s.decodeData(resp, &sessions)
	s.Equal(1, sessions.Total)
}
