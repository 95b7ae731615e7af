package like

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/xytu-function/onebot"
	"gitlab.com/tinyland/lab/xytu-function/plugin"
)

// fakeCaller records calls and answers with a fixed response.
type fakeCaller struct {
	resp   *onebot.Response
	err    error
	action string
	params map[string]any
	calls  int
}

func (f *fakeCaller) Call(_ context.Context, action string, params any) (*onebot.Response, error) {
	f.calls++
	f.action = action
	f.params, _ = params.(map[string]any)
	return f.resp, f.err
}

func retcode(n int) *int { return &n }

func decodeResponse(t *testing.T, raw string) *onebot.Response {
	t.Helper()
	var r onebot.Response
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}
	return &r
}

func qqMessage(sender string) plugin.Message {
	return plugin.Message{Text: "XYTU 赞我", SenderID: sender, SenderName: "小明", Platform: "aiocqhttp"}
}

func TestLikeSendsParams(t *testing.T) {
	f := &fakeCaller{resp: &onebot.Response{Status: "ok"}}
	l := New(f, nil, nil)

	out := l.Like(context.Background(), qqMessage("123456"))
	if !out.Success {
		t.Fatalf("expected success, got %+v", out)
	}
	if f.action != "send_like" {
		t.Errorf("action = %q", f.action)
	}
	if f.params["user_id"] != int64(123456) {
		t.Errorf("user_id = %#v", f.params["user_id"])
	}
	if f.params["times"] != 10 {
		t.Errorf("times = %#v", f.params["times"])
	}
}

func TestLikePreconditions(t *testing.T) {
	tests := []struct {
		name   string
		client onebot.Caller
		msg    plugin.Message
	}{
		{"unsupported platform", &fakeCaller{}, plugin.Message{SenderID: "1", Platform: "telegram"}},
		{"empty sender", &fakeCaller{}, qqMessage("")},
		{"non-numeric sender", &fakeCaller{}, qqMessage("abc")},
		{"no client", nil, qqMessage("1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.client, []string{"aiocqhttp"}, nil)
			out := l.Like(context.Background(), tt.msg)
			if out.Success || out.Suppress {
				t.Errorf("Like() = %+v, want plain failure", out)
			}
			if f, ok := tt.client.(*fakeCaller); ok && f.calls != 0 {
				t.Error("client should not be called")
			}
		})
	}
}

func TestLikeClassification(t *testing.T) {
	tests := []struct {
		name         string
		resp         *onebot.Response
		err          error
		wantSuccess  bool
		wantSuppress bool
		wantLimit    bool
	}{
		{name: "status ok", resp: &onebot.Response{Status: "ok"}, wantSuccess: true},
		{name: "retcode zero", resp: &onebot.Response{Status: "async", RetCode: retcode(0)}, wantSuccess: true},
		{name: "no status no retcode", resp: &onebot.Response{}, wantSuppress: true},
		{
			name:         "failed without retcode",
			resp:         decodeResponse(t, `{"status":"failed","message":"点赞失败 今日已达上限"}`),
			wantSuppress: true,
			wantLimit:    true,
		},
		{
			name:         "failed with zero retcode",
			resp:         decodeResponse(t, `{"status":"failed","retcode":0,"wording":"点赞失败"}`),
			wantSuppress: true,
			wantLimit:    true,
		},
		{name: "nil response", wantSuccess: true},
		{
			name:         "failed status",
			resp:         &onebot.Response{Status: "failed", RetCode: retcode(100), Message: "user not found"},
			wantSuppress: true,
		},
		{
			name:         "failed with limit marker",
			resp:         &onebot.Response{Status: "failed", RetCode: retcode(200), Wording: "今日点赞次数已达上限"},
			wantSuppress: true,
			wantLimit:    true,
		},
		{
			name:         "error with limit marker",
			err:          errors.New("ActionFailed: 点赞失败 今日同一好友点赞数已达上限"),
			wantSuppress: true,
			wantLimit:    true,
		},
		{name: "plain error", err: errors.New("connection refused")},
		{name: "api error", err: &onebot.APIError{StatusCode: 401, Status: "401 Unauthorized"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(&fakeCaller{resp: tt.resp, err: tt.err}, nil, nil)
			out := l.Like(context.Background(), qqMessage("42"))
			if out.Success != tt.wantSuccess || out.Suppress != tt.wantSuppress || out.LimitReached != tt.wantLimit {
				t.Errorf("Like() = %+v, want success=%v suppress=%v limit=%v",
					out, tt.wantSuccess, tt.wantSuppress, tt.wantLimit)
			}
		})
	}
}

func TestSupports(t *testing.T) {
	l := New(nil, []string{"aiocqhttp", "napcat"}, nil)
	if !l.Supports("napcat") || l.Supports("discord") {
		t.Error("Supports() does not honour the configured platforms")
	}
	if !New(nil, nil, nil).Supports("aiocqhttp") {
		t.Error("default platforms should include aiocqhttp")
	}
}
