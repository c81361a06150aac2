package artifact

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constructorInputs(t *testing.T, types ...string) abi.Arguments {
	t.Helper()
	params := make([]string, 0, len(types))
	for i, typ := range types {
		params = append(params, `{"name":"arg`+string(rune('a'+i))+`","type":"`+typ+`"}`)
	}
	raw := `[{"type":"constructor","inputs":[` + strings.Join(params, ",") + `]}]`
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed.Constructor.Inputs
}

func TestCoerceArgs(t *testing.T) {
	t.Run("rejects an argument count mismatch", func(t *testing.T) {
		inputs := constructorInputs(t, "address", "uint256")

		_, err := CoerceArgs(inputs, []string{"0x1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wants 2 arguments, got 1")
	})

	t.Run("accepts an empty constructor", func(t *testing.T) {
		args, err := CoerceArgs(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	t.Run("coerces each supported type", func(t *testing.T) {
		inputs := constructorInputs(t, "address", "uint256", "uint64", "int8", "bool", "string", "bytes", "bytes4")
		raw := []string{
			"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			"1000000000000000000",
			"42",
			"-5",
			"true",
			"hello",
			"0xdeadbeef",
			"0x01020304",
		}

		args, err := CoerceArgs(inputs, raw)
		require.NoError(t, err)
		require.Len(t, args, 8)

		assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), args[0])
		assert.Zero(t, args[1].(*big.Int).Cmp(new(big.Int).SetUint64(1_000_000_000_000_000_000)))
		assert.Equal(t, uint64(42), args[2])
		assert.Equal(t, int8(-5), args[3])
		assert.Equal(t, true, args[4])
		assert.Equal(t, "hello", args[5])
		assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, args[6])
		assert.Equal(t, [4]byte{0x01, 0x02, 0x03, 0x04}, args[7])
	})

	t.Run("parses hex and decimal integers", func(t *testing.T) {
		inputs := constructorInputs(t, "uint256", "uint256")

		args, err := CoerceArgs(inputs, []string{"0xff", "255"})
		require.NoError(t, err)
		assert.Zero(t, args[0].(*big.Int).Cmp(args[1].(*big.Int)))
	})

	t.Run("reports the failing argument position", func(t *testing.T) {
		inputs := constructorInputs(t, "address", "uint64")

		_, err := CoerceArgs(inputs, []string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "not-a-number"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "argument 1")
		assert.Contains(t, err.Error(), "uint64")
	})

	t.Run("rejects a malformed address", func(t *testing.T) {
		inputs := constructorInputs(t, "address")

		_, err := CoerceArgs(inputs, []string{"0x123"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a hex address")
	})

	t.Run("rejects a negative unsigned value", func(t *testing.T) {
		inputs := constructorInputs(t, "uint256")

		_, err := CoerceArgs(inputs, []string{"-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an unsigned integer")
	})

	t.Run("bounds wide unsigned integers to their width", func(t *testing.T) {
		inputs := constructorInputs(t, "uint128")
		maxVal := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

		args, err := CoerceArgs(inputs, []string{maxVal.String()})
		require.NoError(t, err)
		assert.Zero(t, args[0].(*big.Int).Cmp(maxVal))

		over := new(big.Int).Lsh(big.NewInt(1), 128)
		_, err = CoerceArgs(inputs, []string{over.String()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflows uint128")
	})

	t.Run("bounds wide signed integers to their width", func(t *testing.T) {
		inputs := constructorInputs(t, "int128")
		maxVal := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
		minVal := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

		for _, v := range []*big.Int{maxVal, minVal} {
			args, err := CoerceArgs(inputs, []string{v.String()})
			require.NoError(t, err)
			assert.Zero(t, args[0].(*big.Int).Cmp(v))
		}

		for _, v := range []*big.Int{
			new(big.Int).Add(maxVal, big.NewInt(1)),
			new(big.Int).Sub(minVal, big.NewInt(1)),
		} {
			_, err := CoerceArgs(inputs, []string{v.String()})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "overflows int128")
		}
	})

	t.Run("rejects fixed bytes of the wrong length", func(t *testing.T) {
		inputs := constructorInputs(t, "bytes32")

		_, err := CoerceArgs(inputs, []string{"0x0102"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want 32 bytes, got 2")
	})

	t.Run("rejects an unsupported type", func(t *testing.T) {
		inputs := constructorInputs(t, "uint256[]")

		_, err := CoerceArgs(inputs, []string{"1,2,3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported constructor argument type")
	})
}
