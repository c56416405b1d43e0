package mongo

import (
	"context"
	"errors"
	"testing"
)

type ctxKey struct{}

func TestWithTransactionDisabledRunsOnce(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "outer")
	boom := errors.New("boom")

	calls := 0
	err := withTransaction(ctx, nil, false, func(got context.Context) error {
		calls++
		if got.Value(ctxKey{}) != "outer" {
			t.Fatalf("fn must receive the caller's context")
		}
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("err = %v calls = %d", err, calls)
	}
}

func TestWithTransactionEnabledRequiresClient(t *testing.T) {
	called := false
	err := withTransaction(context.Background(), nil, true, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, errNoClient) || called {
		t.Fatalf("err = %v called = %t", err, called)
	}
}

func TestHelloReplySupportsTransactions(t *testing.T) {
	cases := []struct {
		name  string
		reply helloReply
		want  bool
	}{
		{"standalone", helloReply{}, false},
		{"replica set", helloReply{SetName: "rs0"}, true},
		{"mongos", helloReply{Msg: "isdbgrid"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.reply.supportsTransactions(); got != tc.want {
				t.Fatalf("supportsTransactions() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestResolveTransactionalWithoutRequest(t *testing.T) {
	if ResolveTransactional(context.Background(), nil, false, nil) {
		t.Fatalf("transactions must stay off when not requested")
	}
	// 接続先を判定できない場合は素の書き込みに戻す。
	if ResolveTransactional(context.Background(), nil, true, nil) {
		t.Fatalf("transactions must fall back when topology is unknown")
	}
}
