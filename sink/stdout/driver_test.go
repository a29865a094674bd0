package stdout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quirk/internal/transcript"
	"quirk/sink"
)

func TestPush(t *testing.T) {
	var buf bytes.Buffer
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)
	require.NoError(t, s.Configure(Config{Writer: &buf, PrintCounter: true}))

	var acked []int
	s.(sink.AckAware).BindAck(func(seq int) { acked = append(acked, seq) })

	require.NoError(t, s.Push(sink.Record{Seq: 1, Value: "plain text"}))
	require.NoError(t, s.Push(sink.Record{Seq: 2, Value: transcript.Transcript{{"role": "user", "content": "hi"}}}))
	require.NoError(t, s.Close())

	assert.Equal(t, "[000001] plain text\n[000002] [{\"content\":\"hi\",\"role\":\"user\"}]\n", buf.String())
	assert.Equal(t, []int{1, 2}, acked)
}

func TestPush_JSON(t *testing.T) {
	var buf bytes.Buffer
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)
	require.NoError(t, s.Configure(Config{Writer: &buf, JSON: true}))
	require.NoError(t, s.Push(sink.Record{Seq: 1, Value: "a \"quoted\" line"}))
	assert.Equal(t, "\"a \\\"quoted\\\" line\"\n", buf.String())
}

func TestConfigure_WrongType(t *testing.T) {
	s, err := sink.NewAdapter("stdout")
	require.NoError(t, err)
	assert.Error(t, s.Configure("nope"))
	assert.Error(t, s.Push(sink.Record{}))
	_, err = sink.NewAdapter("kafka")
	assert.Error(t, err)
}
