package termux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name     string
	args     []string
	deadline time.Duration
}

type fakeRunner struct {
	out   map[string]string
	err   error
	calls []call
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	c := call{name: name, args: args}
	if d, ok := ctx.Deadline(); ok {
		c.deadline = time.Until(d)
	}
	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out[filepath.Base(name)]), nil
}

var testTimeouts = Timeouts{SMS: 30 * time.Second, NotificationList: 15 * time.Second, Publish: 15 * time.Second}

func TestClient_ListSMS(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		"termux-sms-list": `[{"threadid": 3, "number": "1644-9999", "body": "잔액 1,000원", "type": "inbox"}]`,
	}}
	c := NewClient("/bin/termux", r, testTimeouts)

	msgs, err := c.ListSMS(context.Background(), 1000, "inbox")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "1644-9999", msgs[0].Number)
	assert.Equal(t, "잔액 1,000원", msgs[0].Body)

	require.Len(t, r.calls, 1)
	assert.Equal(t, filepath.Join("/bin/termux", "termux-sms-list"), r.calls[0].name)
	assert.Equal(t, []string{"-l", "1000", "-t", "inbox"}, r.calls[0].args)
	assert.InDelta(t, float64(30*time.Second), float64(r.calls[0].deadline), float64(time.Second))
}

func TestClient_ListNotifications(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		"termux-notification-list": `[{"id": 1, "packageName": "com.cu.onbank", "title": "신협", "content": "잔액 5원"}]`,
	}}
	c := NewClient("/bin/termux", r, testTimeouts)

	notifs, err := c.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "com.cu.onbank", notifs[0].PackageName)
	assert.Equal(t, "신협", notifs[0].Title)
	assert.InDelta(t, float64(15*time.Second), float64(r.calls[0].deadline), float64(time.Second))
}

func TestClient_MalformedOutput(t *testing.T) {
	for _, out := range []string{"", "   \n", "not json", `{"number": "1"}`} {
		r := &fakeRunner{out: map[string]string{"termux-sms-list": out, "termux-notification-list": out}}
		c := NewClient("/bin/termux", r, testTimeouts)

		_, err := c.ListSMS(context.Background(), 10, "inbox")
		assert.Error(t, err, "output %q", out)
		_, err = c.ListNotifications(context.Background())
		assert.Error(t, err, "output %q", out)
	}
}

func TestClient_RunnerError(t *testing.T) {
	boom := errors.New("boom")
	c := NewClient("/bin/termux", &fakeRunner{err: boom}, testTimeouts)

	_, err := c.ListSMS(context.Background(), 10, "inbox")
	assert.ErrorIs(t, err, boom)

	err = c.Notify(context.Background(), Notification{ID: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "publishing notification")
}

func TestClient_Notify(t *testing.T) {
	r := &fakeRunner{}
	c := NewClient("/bin/termux", r, testTimeouts)

	err := c.Notify(context.Background(), Notification{ID: "banktotal", Title: "1,000", Content: "k 1,000"})
	require.NoError(t, err)
	require.Len(t, r.calls, 1)
	assert.Equal(t, filepath.Join("/bin/termux", "termux-notification"), r.calls[0].name)
	assert.Equal(t, []string{"--id", "banktotal", "--title", "1,000", "--content", "k 1,000"}, r.calls[0].args)
}

func TestNotification_Args(t *testing.T) {
	n := Notification{
		ID:        "banktotal",
		Title:     "62,345",
		Content:   "k 50,000 | ha --- | s 12,345 | sh --- | 10/16 14:05",
		Ongoing:   true,
		Priority:  "low",
		AlertOnce: true,
		Icon:      "account_balance_wallet",
		Button:    &Button{Label: "업데이트", Action: "bash banktotal.sh"},
	}
	assert.Equal(t, []string{
		"--id", "banktotal",
		"--title", "62,345",
		"--content", "k 50,000 | ha --- | s 12,345 | sh --- | 10/16 14:05",
		"--ongoing",
		"--priority", "low",
		"--alert-once",
		"--icon", "account_balance_wallet",
		"--button1", "업데이트",
		"--button1-action", "bash banktotal.sh",
	}, n.Args())
}

func writeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
}

func TestExecRunner_Tools(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "termux-sms-list", `echo '[{"number": "15991111", "body": "'"$2"' '"$4"'"}]'`)

	c := NewClient(dir, ExecRunner{}, testTimeouts)
	msgs, err := c.ListSMS(context.Background(), 5, "inbox")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "5 inbox", msgs[0].Body)
}

func TestExecRunner_Failure(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "termux-notification-list", "echo 'no api' >&2\nexit 3")

	c := NewClient(dir, ExecRunner{}, testTimeouts)
	_, err := c.ListNotifications(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "termux-notification-list")
	assert.Contains(t, err.Error(), "no api")
}

func TestExecRunner_Timeout(t *testing.T) {
	dir := t.TempDir()
	writeTool(t, dir, "termux-notification-list", "exec sleep 5")

	c := NewClient(dir, ExecRunner{}, Timeouts{NotificationList: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.ListNotifications(context.Background())
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecRunner_MissingTool(t *testing.T) {
	c := NewClient(t.TempDir(), ExecRunner{}, testTimeouts)
	_, err := c.ListSMS(context.Background(), 1, "inbox")
	assert.Error(t, err)
}
