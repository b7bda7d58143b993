// Package ghapitest provides an in-memory GitHub Actions secrets API for
// tests. It seals nothing itself: it holds a real key pair, opens every
// PUT payload with it and rejects anything that is not a valid sealed box.
package ghapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/PolarWolf314/ghsecrets/internal/secrets"
)

// Call kinds counted by the server.
const (
	CallPublicKey = "public-key"
	CallList      = "list"
	CallPut       = "put"
	CallDelete    = "delete"
	CallRepos     = "repos"
)

// Token is the only token the server accepts unless changed.
const Token = "ghp_testtoken"

type storedSecret struct {
	value     string
	createdAt time.Time
	updatedAt time.Time
}

type failure struct {
	status  int
	message string
}

// Server is a fake api.github.com for one repository.
type Server struct {
	*httptest.Server

	Owner string
	Repo  string

	mu           sync.Mutex
	token        string
	key          secrets.PublicKey
	public       *[secrets.KeySize]byte
	private      *[secrets.KeySize]byte
	keySerial    int
	secrets      map[string]storedSecret
	calls        map[string]int
	failures     map[string]failure
	maxPerPage   int
	repositories []string
	now          func() time.Time
}

// NewServer starts a fake server for owner/repo and closes it when t ends.
func NewServer(t testing.TB, owner, repo string) *Server {
	t.Helper()

	s := &Server{
		Owner:        owner,
		Repo:         repo,
		token:        Token,
		secrets:      make(map[string]storedSecret),
		calls:        make(map[string]int),
		failures:     make(map[string]failure),
		repositories: []string{owner + "/" + repo},
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	s.RotateKey()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/actions/secrets/public-key", s.handlePublicKey)
	mux.HandleFunc("GET /repos/{owner}/{repo}/actions/secrets", s.handleList)
	mux.HandleFunc("PUT /repos/{owner}/{repo}/actions/secrets/{name}", s.handlePut)
	mux.HandleFunc("DELETE /repos/{owner}/{repo}/actions/secrets/{name}", s.handleDelete)
	mux.HandleFunc("GET /user/repos", s.handleRepos)

	s.Server = httptest.NewServer(s.authenticate(mux))
	t.Cleanup(s.Close)

	return s
}

// RotateKey replaces the repository key pair, as GitHub may do at any time.
func (s *Server) RotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keySerial++
	key, public, private, err := secrets.GenerateKeyPair(strconv.Itoa(568250167242549743 + s.keySerial))
	if err != nil {
		panic(err)
	}
	s.key, s.public, s.private = key, public, private
}

// PublicKey returns the key the server currently hands out.
func (s *Server) PublicKey() secrets.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// SetToken changes the accepted token.
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetMaxPerPage caps page sizes so pagination can be exercised.
func (s *Server) SetMaxPerPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPerPage = n
}

// SetRepositories replaces the list served by /user/repos.
func (s *Server) SetRepositories(fullNames ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories = fullNames
}

// Seed stores a secret without going through the API.
func (s *Server) Seed(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.secrets[name] = storedSecret{value: value, createdAt: now, updatedAt: now}
}

// Value returns the decrypted value stored under name.
func (s *Server) Value(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.secrets[name]
	return stored.value, ok
}

// Names returns the stored secret names, sorted.
func (s *Server) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.secrets))
	for name := range s.secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calls returns how many requests of kind were received.
func (s *Server) Calls(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[kind]
}

// TotalCalls returns the number of requests received.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// Fail makes requests of kind fail with status. For put and delete, target
// is the secret name; for other kinds it is ignored.
func (s *Server) Fail(kind, target string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[kind+":"+target] = failure{status: status, message: message}
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		if r.Header.Get("X-GitHub-Api-Version") != "2022-11-28" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing API version"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// begin counts the call and reports whether the handler should continue.
func (s *Server) begin(w http.ResponseWriter, r *http.Request, kind, target string) bool {
	s.mu.Lock()
	s.calls[kind]++
	f, failing := s.failures[kind+":"+target]
	s.mu.Unlock()

	if r.PathValue("owner") != "" && (r.PathValue("owner") != s.Owner || r.PathValue("repo") != s.Repo) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return false
	}
	if failing {
		if f.message == "" {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte("<html>upstream error</html>"))
			return false
		}
		writeJSON(w, f.status, map[string]string{"message": f.message})
		return false
	}
	return true
}

func (s *Server) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, CallPublicKey, "") {
		return
	}
	writeJSON(w, http.StatusOK, s.PublicKey())
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, CallList, "") {
		return
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if perPage <= 0 {
		perPage = 30
	}
	if page <= 0 {
		page = 1
	}

	s.mu.Lock()
	if s.maxPerPage > 0 && perPage > s.maxPerPage {
		perPage = s.maxPerPage
	}
	names := make([]string, 0, len(s.secrets))
	for name := range s.secrets {
		names = append(names, name)
	}
	sort.Strings(names)

	type item struct {
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	items := []item{}
	start := (page - 1) * perPage
	for i := start; i < len(names) && i < start+perPage; i++ {
		stored := s.secrets[names[i]]
		items = append(items, item{Name: names[i], CreatedAt: stored.createdAt, UpdatedAt: stored.updatedAt})
	}
	total := len(names)
	s.mu.Unlock()

	if start+perPage < total {
		next := fmt.Sprintf("%s%s?page=%d&per_page=%d", s.URL, r.URL.Path, page+1, perPage)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
	}

	writeJSON(w, http.StatusOK, map[string]any{"total_count": total, "secrets": items})
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.begin(w, r, CallPut, name) {
		return
	}

	var body struct {
		EncryptedValue string `json:"encrypted_value"`
		KeyID          string `json:"key_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if body.KeyID != s.key.KeyID {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Bad request - key_id does not match"})
		return
	}

	value, err := secrets.OpenSealed(body.EncryptedValue, s.public, s.private)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Bad request - could not decrypt encrypted_value"})
		return
	}

	now := s.now()
	existing, exists := s.secrets[name]
	if exists {
		s.secrets[name] = storedSecret{value: value, createdAt: existing.createdAt, updatedAt: now}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.secrets[name] = storedSecret{value: value, createdAt: now, updatedAt: now}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !s.begin(w, r, CallDelete, name) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.secrets[name]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	delete(s.secrets, name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRepos(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, CallRepos, "") {
		return
	}

	s.mu.Lock()
	repos := make([]map[string]any, 0, len(s.repositories))
	for _, fullName := range s.repositories {
		repos = append(repos, map[string]any{
			"full_name":   fullName,
			"private":     true,
			"permissions": map[string]bool{"admin": true, "push": true, "pull": true},
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, repos)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
