package queue

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleMessageLogsEvent(t *testing.T) {
	c := qt.New(t)
	core, logs := observer.New(zapcore.InfoLevel)

	body := []byte(`{"action":"granted","permission_id":11,"user_id":7,"access_id":3,"permission_level":"write","actor_id":1,"at":"2024-05-01T10:00:00Z"}`)
	c.Assert(handleMessage(body, zap.New(core)), qt.IsNil)

	entries := logs.All()
	c.Assert(entries, qt.HasLen, 1)
	fields := entries[0].ContextMap()
	c.Assert(fields["action"], qt.Equals, ActionGranted)
	c.Assert(fields["user_id"], qt.Equals, uint64(7))
	c.Assert(fields["permission_level"], qt.Equals, "write")
	c.Assert(fields["at"].(time.Time).Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)), qt.IsTrue)
}

func TestHandleMessageRejects(t *testing.T) {
	c := qt.New(t)
	logger := zap.NewNop()

	c.Assert(handleMessage([]byte(`not json`), logger), qt.ErrorMatches, `decoding grant event: .*`)

	err := handleMessage([]byte(`{"action":"booked","permission_id":1}`), logger)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)

	err = handleMessage([]byte(`{"action":"revoked"}`), logger)
	c.Assert(errors.Is(err, errors.NotValid), qt.IsTrue)
}
