package packet

import (
	"testing"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_BottlingExperience(t *testing.T) {
	data := Encode(NewBottlingExperience(2147483647))

	// VarInt id 0x01 followed by a big endian int
	assert.Equal(t, []byte{0x01, 0x7F, 0xFF, 0xFF, 0xFF}, data)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, BottlingExperience, p.ID)

	amount, err := ParseBottlingExperience(p)
	require.NoError(t, err)
	assert.Equal(t, int32(2147483647), amount)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyPacket)

	// unterminated VarInt
	_, err = Decode([]byte{0x80})
	assert.Error(t, err)
}

func TestParse_TruncatedPayload(t *testing.T) {
	_, err := ParseBottlingExperience(pk.Packet{ID: BottlingExperience, Data: []byte{0x00, 0x01}})
	assert.Error(t, err)

	_, err = ParseSourceUpdate(pk.Packet{ID: SourceUpdate})
	assert.Error(t, err)
}

func TestServerboundPackets(t *testing.T) {
	p, err := Decode(Encode(NewOpenBottler(true)))
	require.NoError(t, err)
	assert.Equal(t, OpenBottler, p.ID)
	creative, err := ParseOpenBottler(p)
	require.NoError(t, err)
	assert.True(t, creative)

	p, err = Decode(Encode(NewInsertBottles(16)))
	require.NoError(t, err)
	assert.Equal(t, InsertBottles, p.ID)
	count, err := ParseInsertBottles(p)
	require.NoError(t, err)
	assert.Equal(t, int32(16), count)

	p, err = Decode(Encode(NewDrinkBottle([]byte{1, 2, 3})))
	require.NoError(t, err)
	assert.Equal(t, DrinkBottle, p.ID)
	tag, err := ParseDrinkBottle(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, tag)

	p, err = Decode(Encode(NewTakeResult()))
	require.NoError(t, err)
	assert.Equal(t, TakeResult, p.ID)
	assert.Empty(t, p.Data)
}

func TestClientboundPackets(t *testing.T) {
	p, err := Decode(Encode(NewSourceUpdate(5_000_000_000)))
	require.NoError(t, err)
	assert.Equal(t, SourceUpdate, p.ID)
	total, err := ParseSourceUpdate(p)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000_000), total)

	p, err = Decode(Encode(NewResultUpdate(0)))
	require.NoError(t, err)
	amount, err := ParseResultUpdate(p)
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestServerboundName(t *testing.T) {
	assert.Equal(t, "bottling_experience", ServerboundName(BottlingExperience))
	assert.Equal(t, "drink_bottle", ServerboundName(DrinkBottle))
	assert.Equal(t, "unknown", ServerboundName(0x7F))
}
