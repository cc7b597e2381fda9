package summarize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		want ErrorCode
	}{
		{name: "http 429", msg: "upstream said 429 too many requests", want: CodeRateLimit},
		{name: "rate limit text", msg: "Rate Limit exceeded for project", want: CodeRateLimit},
		{name: "quota", msg: "quota exceeded for quota metric", want: CodeRateLimit},
		{name: "http 401", msg: "request failed with status 401", want: CodeInvalidAPIKey},
		{name: "unauthorized", msg: "Unauthorized", want: CodeInvalidAPIKey},
		{name: "api key text", msg: "API key not valid. Please pass a valid API key.", want: CodeInvalidAPIKey},
		{name: "econnrefused", msg: "connect ECONNREFUSED 127.0.0.1:443", want: CodeNetworkError},
		{name: "network", msg: "network unreachable", want: CodeNetworkError},
		{name: "fetch", msg: "fetch failed", want: CodeNetworkError},
		{name: "connection", msg: "connection reset by peer", want: CodeNetworkError},
		{name: "private video", msg: "video is private", want: CodePrivateVideo},
		{name: "unavailable", msg: "this content is unavailable", want: CodePrivateVideo},
		{name: "too long", msg: "input video is too long for processing", want: CodeVideoTooLong},
		{name: "unrecognized", msg: "xyz", want: CodeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			classified := Classify(errors.New(tc.msg))
			require.Equal(t, tc.want, classified.Code)
			require.Equal(t, tc.msg, classified.Details)
			require.NotEmpty(t, classified.Message)
		})
	}
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	t.Parallel()

	// A pre-classified error must not be reclassified even if its
	// message matches another rule.
	original := NewTimeoutError(5)
	classified := Classify(original)
	require.Same(t, original, classified)
	require.Equal(t, CodeTimeout, classified.Code)
}

func TestTimeoutErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewTimeoutError(7)
	require.Equal(t, "Summarization timed out after 7 minutes", err.Error())
}

func TestClassifyOrdering(t *testing.T) {
	t.Parallel()

	// Auth markers win over network markers when both appear.
	classified := Classify(errors.New("401 unauthorized: connection closed"))
	require.Equal(t, CodeInvalidAPIKey, classified.Code)
}
