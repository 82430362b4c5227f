// Package abi wraps go-ethereum's ABI packing for operation payloads.
package abi

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Encode is the equivalent of abi.encode for an argument list described by
// abiStr (a JSON array of argument definitions). Operation payloads and
// trigger params are packed through this helper so every encoder shares one
// encoding path.
func Encode(abiStr string, values ...any) ([]byte, error) {
	// Wrap the arguments in a dummy method so abi.JSON accepts them
	inDef := fmt.Sprintf(`[{ "name" : "method", "type": "function", "inputs": %s}]`, abiStr)
	inAbi, err := abi.JSON(strings.NewReader(inDef))
	if err != nil {
		return nil, err
	}

	res, err := inAbi.Pack("method", values...)
	if err != nil {
		return nil, err
	}

	return res[4:], nil
}

// Decode is the equivalent of abi.decode.
func Decode(abiStr string, data []byte) ([]any, error) {
	inDef := fmt.Sprintf(`[{ "name" : "method", "type": "function", "outputs": %s}]`, abiStr)
	inAbi, err := abi.JSON(strings.NewReader(inDef))
	if err != nil {
		return nil, err
	}

	return inAbi.Unpack("method", data)
}
