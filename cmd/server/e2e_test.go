package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-shortlink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-shortlink/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-shortlink/pkg/config"
	"github.com/wadjakorntonsri/go-shortlink/pkg/core/services"
)

var (
	shortCodeRe     = regexp.MustCompile(`<code id="short-code">(\w+)</code>`)
	deletionTokenRe = regexp.MustCompile(`<code id="deletion-token">(\w+)</code>`)
	clicksRe        = regexp.MustCompile(`<span id="clicks">(\d+)</span>`)
)

func TestIntegration(t *testing.T) {
	repo, err := sqlite.NewSQLiteRepository("file:e2e_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer repo.Close()

	service := services.NewLinkService(repo, 0)

	cfg := &config.Config{BaseURL: "http://short.test"}
	log := logrus.New()
	log.SetOutput(io.Discard)

	server := httptest.NewServer(handler.NewRouter(cfg, log, service))
	defer server.Close()

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	// Submit a bare domain; it must be normalized with an http:// scheme.
	resp, err := client.PostForm(server.URL+"/", url.Values{"url_submit_field": {"example.com"}})
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	codeMatch := shortCodeRe.FindStringSubmatch(body)
	require.Len(t, codeMatch, 2, "short code missing from response page")
	tokenMatch := deletionTokenRe.FindStringSubmatch(body)
	require.Len(t, tokenMatch, 2, "deletion token missing from response page")

	code, token := codeMatch[1], tokenMatch[1]
	assert.Len(t, code, services.DefaultCodeLength)
	assert.Len(t, token, services.DeletionTokenLength)

	// Invalid submission renders an error view naming the input.
	resp, err = client.PostForm(server.URL+"/", url.Values{"url_submit_field": {"not a url"}})
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "not a url")

	// Redirect resolves to the normalized URL.
	resp, err = client.Get(server.URL + "/" + code)
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://example.com", resp.Header.Get("Location"))

	// Trailing slash answers too.
	resp, err = client.Get(server.URL + "/" + code + "/")
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	// Stats shows the two clicks.
	resp, err = client.Get(server.URL + "/" + code + "/stats")
	require.NoError(t, err)
	body = readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	clicksMatch := clicksRe.FindStringSubmatch(body)
	require.Len(t, clicksMatch, 2)
	assert.Equal(t, "2", clicksMatch[1])

	// Unknown code renders not-found.
	resp, err = client.Get(server.URL + "/zzz")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deletion form renders for a known code.
	resp, err = client.Get(server.URL + "/" + code + "/delete")
	require.NoError(t, err)
	body = readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "deletion_code_field")

	// Wrong deletion code: rejected, link survives.
	resp, err = client.PostForm(server.URL+"/"+code+"/delete", url.Values{"deletion_code_field": {"wrong1"}})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = client.Get(server.URL + "/" + code)
	require.NoError(t, err)
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode, "link must survive a failed deletion")

	// Correct deletion code removes the link.
	resp, err = client.PostForm(server.URL+"/"+code+"/delete", url.Values{"deletion_code_field": {token}})
	require.NoError(t, err)
	body = readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "deleted")

	resp, err = client.Get(server.URL + "/" + code)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
