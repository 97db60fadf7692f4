package fdmsg_test

import (
	"testing"

	"github.com/sagernet/sing-fdmsg"

	"github.com/stretchr/testify/require"
)

func TestVectorConsume(t *testing.T) {
	t.Parallel()
	var vector fdmsg.Vector
	vector.AppendBytes(make([]byte, 8), 0, 8)
	vector.AppendBytes(make([]byte, 4), 0, 4)
	require.Equal(t, 2, vector.Count())
	require.Equal(t, 12, vector.ByteCount())

	vector.Consume(3)
	require.Equal(t, 2, vector.Count())
	require.Equal(t, 9, vector.ByteCount())

	vector.Consume(5)
	require.Equal(t, 1, vector.Count())
	require.Equal(t, 4, vector.ByteCount())

	vector.Consume(10)
	require.Equal(t, 0, vector.Count())
	require.Equal(t, 0, vector.ByteCount())
}

func TestVectorReset(t *testing.T) {
	t.Parallel()
	var vector fdmsg.Vector
	vector.AppendBytes(make([]byte, 16), 4, 8)
	require.Equal(t, 1, vector.Count())
	vector.Reset()
	require.Equal(t, 0, vector.Count())
	require.Equal(t, 0, vector.ByteCount())
}
