package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedServerURL returns the address of a server that no longer listens.
func closedServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func jsonServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDispatch_PassThrough(t *testing.T) {
	srv, hits := jsonServer(t, http.StatusOK, `{"message":"success","number":7}`)
	spec := &EndpointSpec{Name: "test", URLTemplate: srv.URL + "/astros.json"}

	out := NewClient(nil).Dispatch(context.Background(), spec, nil)

	require.NoError(t, out.Err)
	assert.True(t, out.OK())
	assert.Equal(t, `{"message":"success","number":7}`, string(out.Body))
	assert.Equal(t, "test", out.Endpoint)
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestDispatch_Unreachable(t *testing.T) {
	spec := &EndpointSpec{Name: "test", URLTemplate: closedServerURL(t) + "/iss-now.json"}

	out := NewClient(nil).Dispatch(context.Background(), spec, nil)

	require.Error(t, out.Err)
	var unreachable *UnreachableError
	require.True(t, errors.As(out.Err, &unreachable))
	assert.Equal(t, http.MethodGet, unreachable.Method)
	assert.Contains(t, out.Err.Error(), "/iss-now.json")
	assert.Nil(t, out.Body)
}

func TestDispatch_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusTooManyRequests, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _ := jsonServer(t, status, `{"detail":"nope"}`)
			spec := &EndpointSpec{Name: "test", URLTemplate: srv.URL + "/thing"}

			out := NewClient(nil).Dispatch(context.Background(), spec, nil)

			var rejected *RejectedError
			require.True(t, errors.As(out.Err, &rejected))
			assert.Equal(t, status, rejected.StatusCode)
		})
	}

	err := &RejectedError{StatusCode: 404, URL: "https://pokeapi.co/api/v2/pokemon/nope"}
	assert.Equal(t, "404 Client Error: Not Found for url: https://pokeapi.co/api/v2/pokemon/nope", err.Error())
	err = &RejectedError{StatusCode: 503, URL: "http://x"}
	assert.Equal(t, "503 Server Error: Service Unavailable for url: http://x", err.Error())
}

func TestDispatch_ShapeMismatch(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		srv, _ := jsonServer(t, http.StatusOK, `<html>maintenance</html>`)
		spec := &EndpointSpec{Name: "test", URLTemplate: srv.URL}

		out := NewClient(nil).Dispatch(context.Background(), spec, nil)

		var mismatch *ShapeMismatchError
		require.True(t, errors.As(out.Err, &mismatch))
		assert.ErrorIs(t, out.Err, errNotJSON)
	})

	t.Run("missing field", func(t *testing.T) {
		srv, _ := jsonServer(t, http.StatusOK, `{"id":1,"name":"bulbasaur"}`)
		spec := &EndpointSpec{Name: "pokemon", URLTemplate: srv.URL, ShapeResponse: ShapePokemon}

		out := NewClient(nil).Dispatch(context.Background(), spec, nil)

		var mismatch *ShapeMismatchError
		require.True(t, errors.As(out.Err, &mismatch))
		assert.Contains(t, out.Err.Error(), `"height"`)
	})
}

func TestDispatch_TemplateError(t *testing.T) {
	spec := &EndpointSpec{Name: "test", URLTemplate: "http://localhost/pokemon/{name}"}

	out := NewClient(nil).Dispatch(context.Background(), spec, Params{})

	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "{name}")
}

func TestDispatch_Credentials(t *testing.T) {
	var gotKey, gotUser, gotPass string
	var gotBasic bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotUser, gotPass, gotBasic = r.BasicAuth()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client())
	out := c.Dispatch(context.Background(), &EndpointSpec{
		Name:        "key",
		URLTemplate: srv.URL + "/planetary/apod",
		Auth:        APIKey{Param: "api_key", Value: "secret"},
	}, nil)
	require.NoError(t, out.Err)
	assert.Equal(t, "secret", gotKey)
	assert.False(t, gotBasic)

	out = c.Dispatch(context.Background(), &EndpointSpec{
		Name:        "basic",
		URLTemplate: srv.URL,
		Auth:        BasicAuth{Username: "id", Password: "pw"},
	}, nil)
	require.NoError(t, out.Err)
	assert.True(t, gotBasic)
	assert.Equal(t, "id", gotUser)
	assert.Equal(t, "pw", gotPass)
}

func TestDispatch_KeyNotInError(t *testing.T) {
	srv, _ := jsonServer(t, http.StatusForbidden, `{}`)
	spec := &EndpointSpec{
		Name:        "apod",
		URLTemplate: srv.URL + "/planetary/apod",
		Auth:        APIKey{Param: "api_key", Value: "top-secret"},
	}

	out := NewClient(nil).Dispatch(context.Background(), spec, nil)

	require.Error(t, out.Err)
	assert.NotContains(t, out.Err.Error(), "top-secret")
}

func TestExecute_Fallback(t *testing.T) {
	fallbackBody := `{"from":"fallback"}`

	t.Run("primary ok", func(t *testing.T) {
		primary, _ := jsonServer(t, http.StatusOK, `{"from":"primary"}`)
		fallback, fallbackHits := jsonServer(t, http.StatusOK, fallbackBody)
		spec := &EndpointSpec{
			Name:        "primary",
			URLTemplate: primary.URL,
			Fallback:    &EndpointSpec{Name: "fallback", URLTemplate: fallback.URL},
		}

		out := NewClient(nil).Execute(context.Background(), spec, nil)

		require.NoError(t, out.Err)
		assert.False(t, out.FellBack)
		assert.Equal(t, `{"from":"primary"}`, string(out.Body))
		assert.Zero(t, atomic.LoadInt32(fallbackHits))
	})

	t.Run("primary rejected", func(t *testing.T) {
		primary, primaryHits := jsonServer(t, http.StatusUnauthorized, `{"error":"bad auth"}`)
		fallback, fallbackHits := jsonServer(t, http.StatusOK, fallbackBody)
		spec := &EndpointSpec{
			Name:        "primary",
			URLTemplate: primary.URL,
			Fallback:    &EndpointSpec{Name: "fallback", URLTemplate: fallback.URL},
		}

		out := NewClient(nil).Execute(context.Background(), spec, nil)

		require.NoError(t, out.Err)
		assert.True(t, out.FellBack)
		assert.Equal(t, "fallback", out.Endpoint)
		assert.Equal(t, fallbackBody, string(out.Body))
		assert.EqualValues(t, 1, atomic.LoadInt32(primaryHits))
		assert.EqualValues(t, 1, atomic.LoadInt32(fallbackHits))
	})

	t.Run("primary unreachable", func(t *testing.T) {
		fallback, _ := jsonServer(t, http.StatusOK, fallbackBody)
		spec := &EndpointSpec{
			Name:        "primary",
			URLTemplate: closedServerURL(t),
			Fallback:    &EndpointSpec{Name: "fallback", URLTemplate: fallback.URL},
		}

		out := NewClient(nil).Execute(context.Background(), spec, nil)

		require.NoError(t, out.Err)
		assert.True(t, out.FellBack)
	})

	t.Run("both fail", func(t *testing.T) {
		primary, _ := jsonServer(t, http.StatusInternalServerError, `{}`)
		fallback, _ := jsonServer(t, http.StatusServiceUnavailable, `{}`)
		spec := &EndpointSpec{
			Name:        "primary",
			URLTemplate: primary.URL,
			Fallback:    &EndpointSpec{Name: "fallback", URLTemplate: fallback.URL},
		}

		out := NewClient(nil).Execute(context.Background(), spec, nil)

		var rejected *RejectedError
		require.True(t, errors.As(out.Err, &rejected))
		assert.Equal(t, http.StatusServiceUnavailable, rejected.StatusCode)
		assert.True(t, out.FellBack)
	})

	t.Run("fallback is not chained", func(t *testing.T) {
		third, thirdHits := jsonServer(t, http.StatusOK, `{}`)
		spec := &EndpointSpec{
			Name:        "primary",
			URLTemplate: closedServerURL(t),
			Fallback: &EndpointSpec{
				Name:        "fallback",
				URLTemplate: closedServerURL(t),
				Fallback:    &EndpointSpec{Name: "third", URLTemplate: third.URL},
			},
		}

		out := NewClient(nil).Execute(context.Background(), spec, nil)

		require.Error(t, out.Err)
		assert.Zero(t, atomic.LoadInt32(thirdHits))
	})
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{"no placeholders", "http://h/iss-now.json", nil, "http://h/iss-now.json"},
		{"path", "http://h/pokemon/{name}", map[string]string{"name": "mr-mime"}, "http://h/pokemon/mr-mime"},
		{"path escaped", "http://h/pokemon/{name}", map[string]string{"name": "a b/c"}, "http://h/pokemon/a%20b%2Fc"},
		{"query escaped", "http://h/daily?sign={sign}&day=today", map[string]string{"sign": "a&b"}, "http://h/daily?sign=a%26b&day=today"},
		{"query verbatim", "http://h/daily?sign={sign}&day=today", map[string]string{"sign": "Aries"}, "http://h/daily?sign=Aries&day=today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.tmpl, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
