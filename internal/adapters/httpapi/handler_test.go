package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/review_sentiment/internal/adapters/logger"
	"github.com/baditaflorin/review_sentiment/internal/adapters/normalizer"
	"github.com/baditaflorin/review_sentiment/internal/adapters/stream"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	proc, err := stream.NewProcessor(logger.NewNopLogger(), normalizer.NewOptimizedNormalizer(), stream.DefaultConfig())
	require.NoError(t, err)
	return NewHandler(logger.NewNopLogger(), proc)
}

func do(h *Handler, method, path, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	h.HandleRequest(&ctx)
	return &ctx
}

func TestHealth(t *testing.T) {
	ctx := do(newHandler(t), fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"status":"ok"`)
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}

func TestClean(t *testing.T) {
	body := `{"texts":["Great Product!! <b>Loved</b> it 100%","","   multiple   SPACES   "]}`
	ctx := do(newHandler(t), fasthttp.MethodPost, "/clean", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp CleanResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, []string{"great product blovedb it", "", "multiple spaces"}, resp.Cleaned)
}

func TestCleanErrors(t *testing.T) {
	h := newHandler(t).WithMaxItems(2)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"wrong method", fasthttp.MethodGet, "", fasthttp.StatusMethodNotAllowed},
		{"invalid json", fasthttp.MethodPost, `{"texts":`, fasthttp.StatusBadRequest},
		{"missing texts", fasthttp.MethodPost, `{}`, fasthttp.StatusBadRequest},
		{"non string text", fasthttp.MethodPost, `{"texts":[1]}`, fasthttp.StatusBadRequest},
		{"too many", fasthttp.MethodPost, `{"texts":["a","b","c"]}`, fasthttp.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := do(h, tc.method, "/clean", tc.body)
			assert.Equal(t, tc.status, ctx.Response.StatusCode())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestBin(t *testing.T) {
	h := newHandler(t)

	ctx := do(h, fasthttp.MethodPost, "/bin", `{"ratings":[1,2,3,4,5]}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var resp BinResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "three_class", resp.Policy)
	assert.Equal(t, []int{0, 0, 1, 2, 2}, resp.Labels)
	assert.Equal(t, []string{"negative", "negative", "neutral", "positive", "positive"}, resp.LabelNames)

	ctx = do(h, fasthttp.MethodPost, "/bin", `{"ratings":[2,4,5,1],"policy":"binary"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp = BinResponse{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, []int{0, 1, 1, 0}, resp.Labels)
}

func TestBinErrors(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"neutral under binary", `{"ratings":[4,3],"policy":"binary"}`, "ratings[1]"},
		{"out of range", `{"ratings":[0]}`, "rating out of range"},
		{"unknown policy", `{"ratings":[1],"policy":"stars"}`, "unknown binning policy"},
		{"non numeric", `{"ratings":["five"]}`, "Invalid request"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := do(h, fasthttp.MethodPost, "/bin", tc.body)
			assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
			assert.Contains(t, string(ctx.Response.Body()), tc.msg)
		})
	}
}

func TestNotFound(t *testing.T) {
	ctx := do(newHandler(t), fasthttp.MethodGet, "/train", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}
