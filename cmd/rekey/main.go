// Re-encrypts the wallet file under a new password. The key and address stay the same.
// Usage: WALLET_FILE_PATH=wallet.cwt go run ./cmd/rekey
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/AlexZinkM/globepay/internal/config"
	"github.com/AlexZinkM/globepay/internal/crypto"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ks := crypto.NewKeystore(cfg.WalletFilePath, crypto.WithNetwork(cfg.Network))
	if !ks.Exists() {
		return fmt.Errorf("%w: %s", crypto.ErrNoWallet, cfg.WalletFilePath)
	}

	oldPass, err := prompt("Current password: ")
	if err != nil {
		return err
	}
	defer clear(oldPass)

	newPass, err := prompt("New password: ")
	if err != nil {
		return err
	}
	defer clear(newPass)

	confirm, err := prompt("Repeat new password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(newPass, confirm) {
		return fmt.Errorf("passwords do not match")
	}

	if err := ks.Rekey(oldPass, newPass); err != nil {
		return fmt.Errorf("rekey failed: %w", err)
	}

	address, err := ks.Address()
	if err != nil {
		return err
	}
	fmt.Println("wallet re-encrypted:", address)
	return nil
}

func prompt(label string) ([]byte, error) {
	p, err := config.PromptForPassword(label)
	if err != nil {
		return nil, err
	}
	defer p.Wipe()
	return p.Bytes()
}
