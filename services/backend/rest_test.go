package backendsvc

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]interface{}
}

func newTestBackend(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	rec := new(recordedRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		if data, _ := ioutil.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	conf := &core.Config{Backend: core.BackendConfig{BaseURL: srv.URL + "/api/", APIKey: "key", Timeout: time.Second}}
	return NewClient(conf), rec
}

func TestClient_FetchCourses(t *testing.T) {
	tests := []struct {
		name      string
		owner     string
		wantQuery string
	}{
		{name: "all courses"},
		{name: "teacher's courses", owner: "teacher-1", wantQuery: "teacher=teacher-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestBackend(t, http.StatusOK, `[{"id":"c1","title":"Maths"}]`)

			courses, err := client.FetchCourses(context.Background(), tt.owner)
			require.NoError(t, err)
			assert.Equal(t, []question.Option{{ID: "c1", Title: "Maths"}}, courses)
			assert.Equal(t, http.MethodGet, rec.method)
			assert.Equal(t, "/api/courses", rec.path)
			assert.Equal(t, tt.wantQuery, rec.query)
			assert.Equal(t, "Bearer key", rec.auth)
		})
	}
}

func TestClient_FetchLessons(t *testing.T) {
	client, rec := newTestBackend(t, http.StatusOK, `[]`)

	lessons, err := client.FetchLessons(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, lessons)
	assert.Equal(t, "/api/courses/c1/lessons", rec.path)
}

func TestClient_CreateQuestion(t *testing.T) {
	client, rec := newTestBackend(t, http.StatusCreated, `{"id":"q1","question":"Q?","questionType":"written","correctAnswer":"A","isGeneral":true}`)

	p := question.Payload{
		Question:      "Q?",
		QuestionType:  question.TypeWritten,
		CorrectAnswer: "A",
		Difficulty:    question.DifficultyEasy,
		Points:        1,
		EstimatedTime: 30,
		IsGeneral:     true,
	}
	q, err := client.CreateQuestion(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, "A", q.CorrectAnswer)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/questions", rec.path)
	assert.Equal(t, true, rec.body["isGeneral"])
	assert.NotContains(t, rec.body, "course")
	assert.NotContains(t, rec.body, "answers")
	assert.NotContains(t, rec.body, "tags")
}

func TestClient_UpdateQuestion(t *testing.T) {
	client, rec := newTestBackend(t, http.StatusOK, `{"id":"q1"}`)
	client = client.WithAPIKey("other")

	_, err := client.UpdateQuestion(context.Background(), "q1", question.Payload{Course: "c1", Lesson: "l1"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/questions/q1", rec.path)
	assert.Equal(t, "Bearer other", rec.auth)
	assert.Equal(t, "c1", rec.body["course"])
	assert.Equal(t, "l1", rec.body["lesson"])
}

func TestClient_errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		client, _ := newTestBackend(t, http.StatusNotFound, `{"error":"not found"}`)
		_, err := client.GetQuestion(context.Background(), "q404")
		assert.Equal(t, question.ErrNotFound, err)
	})

	t.Run("server error", func(t *testing.T) {
		client, _ := newTestBackend(t, http.StatusBadGateway, `oops`)
		_, err := client.CreateQuestion(context.Background(), question.Payload{})

		var bErr *Error
		require.True(t, errors.As(err, &bErr), "error = %v", err)
		assert.Equal(t, http.StatusBadGateway, bErr.StatusCode)
		assert.Equal(t, "oops", bErr.Body)
	})

	t.Run("bad json", func(t *testing.T) {
		client, _ := newTestBackend(t, http.StatusOK, `{`)
		_, err := client.FetchCourses(context.Background(), "")
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		client := NewClient(&core.Config{Backend: core.BackendConfig{BaseURL: "http://127.0.0.1:1"}})
		_, err := client.FetchLessons(context.Background(), "c1")
		assert.Error(t, err)
	})
}
