package ghapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/ghsecrets/internal/errors"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
	"github.com/PolarWolf314/ghsecrets/internal/ghapi/ghapitest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*ghapitest.Server, *ghapi.Client, *ghapi.Session) {
	t.Helper()

	server := ghapitest.NewServer(t, "octo", "hello")
	client, err := ghapi.NewClient(ghapi.Options{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	sess, err := ghapi.NewSession(ghapitest.Token, ghapi.RepositoryRef{Owner: "octo", Name: "hello"})
	require.NoError(t, err)

	return server, client, sess
}

func TestFetchPublicKey_AlwaysFresh(t *testing.T) {
	server, client, sess := setup(t)
	ctx := context.Background()

	first, err := client.FetchPublicKey(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, server.PublicKey(), first)

	server.RotateKey()

	second, err := client.FetchPublicKey(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, first.KeyID, second.KeyID)
	assert.Equal(t, 2, server.Calls(ghapitest.CallPublicKey))
}

func TestFetchPublicKey_RemoteErrorWithMessage(t *testing.T) {
	server, client, sess := setup(t)
	server.Fail(ghapitest.CallPublicKey, "", http.StatusForbidden, "Resource not accessible by personal access token")

	_, err := client.FetchPublicKey(context.Background(), sess)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusForbidden, remote.Status)
	assert.Equal(t, "Resource not accessible by personal access token", remote.Message)
	assert.Equal(t, "failed to fetch public key: 403 - Resource not accessible by personal access token", err.Error())
}

func TestFetchPublicKey_GenericMessageForNonJSONBody(t *testing.T) {
	server, client, sess := setup(t)
	server.Fail(ghapitest.CallPublicKey, "", http.StatusBadGateway, "")

	_, err := client.FetchPublicKey(context.Background(), sess)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Status)
	assert.Equal(t, "HTTP error: Bad Gateway", remote.Message)
}

func TestListSecrets_EmptyRepository(t *testing.T) {
	_, client, sess := setup(t)

	list, err := client.ListSecrets(context.Background(), sess)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListSecrets_FollowsPagination(t *testing.T) {
	server, client, sess := setup(t)
	server.SetMaxPerPage(2)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		server.Seed(name, "v")
	}

	list, err := client.ListSecrets(context.Background(), sess)
	require.NoError(t, err)

	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name
		assert.False(t, s.UpdatedAt.IsZero())
	}
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
	assert.Equal(t, 3, server.Calls(ghapitest.CallList))
}

func TestListSecrets_UnknownRepository(t *testing.T) {
	_, client, sess := setup(t)

	_, err := client.ListSecrets(context.Background(), sess.WithRepo(ghapi.RepositoryRef{Owner: "octo", Name: "missing"}))

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Equal(t, "Not Found", remote.Message)
}

func TestPutSecret_SealsAndStores(t *testing.T) {
	server, client, sess := setup(t)

	var stages []ghapi.Stage
	result, err := client.PutSecret(context.Background(), sess, "API_KEY", "s3cr3t", func(s ghapi.Stage) {
		stages = append(stages, s)
	})
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, []ghapi.Stage{ghapi.StageFetchingKey, ghapi.StageEncrypting, ghapi.StageWriting}, stages)

	value, ok := server.Value("API_KEY")
	require.True(t, ok)
	assert.Equal(t, "s3cr3t", value)
}

func TestPutSecret_UpdateReportsNotCreated(t *testing.T) {
	server, client, sess := setup(t)
	server.Seed("API_KEY", "old")

	result, err := client.PutSecret(context.Background(), sess, "API_KEY", "new", nil)
	require.NoError(t, err)

	assert.False(t, result.Created)
	value, _ := server.Value("API_KEY")
	assert.Equal(t, "new", value)
}

func TestPutSecret_FetchesKeyForEveryWrite(t *testing.T) {
	server, client, sess := setup(t)
	ctx := context.Background()

	_, err := client.PutSecret(ctx, sess, "ONE", "1", nil)
	require.NoError(t, err)
	server.RotateKey()
	_, err = client.PutSecret(ctx, sess, "TWO", "2", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, server.Calls(ghapitest.CallPublicKey))
	value, _ := server.Value("TWO")
	assert.Equal(t, "2", value)
}

func TestPutSecret_InvalidNameMakesNoRequest(t *testing.T) {
	server, client, sess := setup(t)

	for _, name := range []string{"", "lower", "WITH-DASH", "A B", "../ESCAPE"} {
		_, err := client.PutSecret(context.Background(), sess, name, "value", nil)
		assert.ErrorIs(t, err, kerrors.ErrValidation, name)
	}

	assert.Zero(t, server.TotalCalls())
}

func TestPutSecret_RemoteRejection(t *testing.T) {
	server, client, sess := setup(t)
	server.Fail(ghapitest.CallPut, "API_KEY", http.StatusUnprocessableEntity, "Validation Failed")

	_, err := client.PutSecret(context.Background(), sess, "API_KEY", "value", nil)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "update secret", remote.Op)
	assert.Equal(t, http.StatusUnprocessableEntity, remote.Status)
	assert.Empty(t, server.Names())
}

func TestPutSecret_MalformedKeyStopsBeforeWrite(t *testing.T) {
	var puts atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			puts.Add(1)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"key_id":"1","key":"MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA"}`))
	}))
	t.Cleanup(api.Close)

	client, err := ghapi.NewClient(ghapi.Options{BaseURL: api.URL})
	require.NoError(t, err)
	sess, err := ghapi.NewSession("token", ghapi.RepositoryRef{Owner: "o", Name: "r"})
	require.NoError(t, err)

	_, err = client.PutSecret(context.Background(), sess, "NAME", "value", nil)

	assert.ErrorIs(t, err, kerrors.ErrKeyDecode)
	assert.Zero(t, puts.Load())
}

func TestDeleteSecret(t *testing.T) {
	server, client, sess := setup(t)
	server.Seed("GONE", "v")
	ctx := context.Background()

	require.NoError(t, client.DeleteSecret(ctx, sess, "GONE"))
	assert.Empty(t, server.Names())

	// Already deleted counts as success.
	require.NoError(t, client.DeleteSecret(ctx, sess, "GONE"))
}

func TestDeleteSecret_SurfacesGenuineFailures(t *testing.T) {
	server, client, sess := setup(t)
	server.Seed("KEEP", "v")
	server.Fail(ghapitest.CallDelete, "KEEP", http.StatusInternalServerError, "Server Error")

	err := client.DeleteSecret(context.Background(), sess, "KEEP")

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
	assert.Equal(t, []string{"KEEP"}, server.Names())
}

func TestBadToken(t *testing.T) {
	_, client, _ := setup(t)
	sess, err := ghapi.NewSession("wrong", ghapi.RepositoryRef{Owner: "octo", Name: "hello"})
	require.NoError(t, err)

	_, err = client.ListSecrets(context.Background(), sess)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
	assert.Equal(t, "Bad credentials", remote.Message)
}

func TestTransportFailure(t *testing.T) {
	server, client, sess := setup(t)
	server.Close()

	_, err := client.ListSecrets(context.Background(), sess)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Zero(t, remote.Status)
	assert.NotEmpty(t, remote.Message)
}

func TestTimeout(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(api.Close)

	client, err := ghapi.NewClient(ghapi.Options{BaseURL: api.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	sess, err := ghapi.NewSession("token", ghapi.RepositoryRef{Owner: "o", Name: "r"})
	require.NoError(t, err)

	_, err = client.FetchPublicKey(context.Background(), sess)

	var remote *kerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "request timed out", remote.Message)
}

func TestRequestsCarryGitHubHeaders(t *testing.T) {
	var got http.Header
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_count":0,"secrets":[]}`))
	}))
	t.Cleanup(api.Close)

	client, err := ghapi.NewClient(ghapi.Options{BaseURL: api.URL})
	require.NoError(t, err)
	sess, err := ghapi.NewSession("ghp_abc", ghapi.RepositoryRef{Owner: "o", Name: "r"})
	require.NoError(t, err)

	_, err = client.ListSecrets(context.Background(), sess)
	require.NoError(t, err)

	assert.Equal(t, "Bearer ghp_abc", got.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", got.Get("Accept"))
	assert.Equal(t, ghapi.APIVersion, got.Get("X-GitHub-Api-Version"))
}

func TestListRepositories(t *testing.T) {
	server, client, sess := setup(t)
	server.SetRepositories("octo/hello", "octo/world")

	repos, err := client.ListRepositories(context.Background(), sess)
	require.NoError(t, err)

	require.Len(t, repos, 2)
	assert.Equal(t, "octo/world", repos[1].FullName)
	assert.Equal(t, ghapi.RepositoryRef{Owner: "octo", Name: "world"}, repos[1].Ref())
	assert.True(t, repos[0].Admin)
}

func TestSessionRequiresRepository(t *testing.T) {
	server, client, _ := setup(t)
	sess, err := ghapi.NewSession(ghapitest.Token, ghapi.RepositoryRef{})
	require.NoError(t, err)

	_, err = client.ListSecrets(context.Background(), sess)

	assert.ErrorIs(t, err, kerrors.ErrNoRepository)
	assert.Zero(t, server.TotalCalls())
}
