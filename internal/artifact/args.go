package artifact

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// CoerceArgs converts raw string arguments into Go values matching the ABI
// constructor signature, in order. Supported types: address, uintN, intN,
// bool, string, bytes, and fixed-size bytesN. Count or type mismatches are
// reported without touching the network.
func CoerceArgs(inputs abi.Arguments, raw []string) ([]interface{}, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("constructor wants %d arguments, got %d", len(inputs), len(raw))
	}
	args := make([]interface{}, 0, len(inputs))
	for i, input := range inputs {
		v, err := coerce(input.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, input.Type.String(), err)
		}
		args = append(args, v)
	}
	return args, nil
}

func coerce(t abi.Type, s string) (interface{}, error) {
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("%q is not a hex address", s)
		}
		return common.HexToAddress(s), nil
	case abi.UintTy:
		return coerceUint(t.Size, s)
	case abi.IntTy:
		return coerceInt(t.Size, s)
	case abi.BoolTy:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a bool", s)
		}
		return b, nil
	case abi.StringTy:
		return s, nil
	case abi.BytesTy:
		return hexBytes(s)
	case abi.FixedBytesTy:
		b, err := hexBytes(s)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("want %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(reflect.ArrayOf(t.Size, reflect.TypeOf(byte(0)))).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported constructor argument type %s", t.String())
	}
}

// coerceUint maps to the Go type the ABI packer expects: native unsigned
// integers for the 8/16/32/64 sizes, *big.Int for everything else.
func coerceUint(size int, s string) (interface{}, error) {
	switch size {
	case 8, 16, 32, 64:
		n, err := strconv.ParseUint(s, 0, size)
		if err != nil {
			return nil, fmt.Errorf("%q is not a uint%d", s, size)
		}
		switch size {
		case 8:
			return uint8(n), nil
		case 16:
			return uint16(n), nil
		case 32:
			return uint32(n), nil
		default:
			return n, nil
		}
	default:
		n, ok := new(big.Int).SetString(s, 0)
		if !ok || n.Sign() < 0 {
			return nil, fmt.Errorf("%q is not an unsigned integer", s)
		}
		// The ABI packer wraps out-of-range values mod 2^256 instead of
		// rejecting them, so the width check has to happen here.
		if n.BitLen() > size {
			return nil, fmt.Errorf("%q overflows uint%d", s, size)
		}
		return n, nil
	}
}

// coerceInt mirrors coerceUint for signed integers.
func coerceInt(size int, s string) (interface{}, error) {
	switch size {
	case 8, 16, 32, 64:
		n, err := strconv.ParseInt(s, 0, size)
		if err != nil {
			return nil, fmt.Errorf("%q is not an int%d", s, size)
		}
		switch size {
		case 8:
			return int8(n), nil
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	default:
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		// Signed range is [-2^(size-1), 2^(size-1)-1].
		bound := new(big.Int).Lsh(big.NewInt(1), uint(size-1))
		if n.Cmp(new(big.Int).Neg(bound)) < 0 || n.Cmp(new(big.Int).Sub(bound, big.NewInt(1))) > 0 {
			return nil, fmt.Errorf("%q overflows int%d", s, size)
		}
		return n, nil
	}
}

func hexBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("%q is not hex: %w", s, err)
	}
	return b, nil
}
