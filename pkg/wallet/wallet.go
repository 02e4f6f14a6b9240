package wallet

import (
	"bufio"
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet holds a parsed private key and its derived address
type Wallet struct {
	Index      int
	PrivateKey *ecdsa.PrivateKey
	Address    common.Address
}

// Short returns a truncated address for log output
func (w *Wallet) Short() string {
	addr := w.Address.Hex()
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FromHex parses a single hex-encoded private key
func FromHex(index int, hexKey string) (*Wallet, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")

	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %d: %v", index, err)
	}

	return &Wallet{
		Index:      index,
		PrivateKey: privateKey,
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// LoadFile reads wallets from a file containing one private key per line.
// Blank lines and lines starting with '#' are skipped. A malformed key is
// not fatal: the entry is reported in the second return value and the rest
// of the file still loads.
func LoadFile(path string) ([]*Wallet, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open wallet file: %v", err)
	}
	defer f.Close()

	var wallets []*Wallet
	var invalid []error
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		w, err := FromHex(len(wallets)+1, text)
		if err != nil {
			invalid = append(invalid, fmt.Errorf("invalid key on line %d: %v", line, err))
			continue
		}
		wallets = append(wallets, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read wallet file: %v", err)
	}

	if len(wallets) == 0 {
		return nil, invalid, fmt.Errorf("no usable private keys found in %s", path)
	}

	return wallets, invalid, nil
}
