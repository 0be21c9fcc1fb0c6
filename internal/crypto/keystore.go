package crypto

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AlexZinkM/globepay/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrNoWallet         = errors.New("wallet file does not exist")
	ErrWalletExists     = errors.New("wallet file is not empty")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrPasswordRequired = errors.New("password is required")
	ErrKeyMismatch      = errors.New("private key does not match wallet address")
)

const mnemonicEntropyBits = 128 // 12 words

// Keystore is the custody boundary for the signing key: one encrypted .cwt file.
// The private key only ever leaves it through Unlock, and the caller must clear it.
type Keystore struct {
	path    string
	network string
	scryptN int

	mu sync.Mutex
}

// Option configures a Keystore.
type Option func(*Keystore)

// WithScryptCost overrides the scrypt N parameter for newly written files.
func WithScryptCost(n int) Option {
	return func(k *Keystore) { k.scryptN = n }
}

// WithNetwork sets the network label written into new files.
func WithNetwork(network string) Option {
	return func(k *Keystore) { k.network = network }
}

// NewKeystore returns a keystore bound to path. Nothing is read or written yet.
func NewKeystore(path string, opts ...Option) *Keystore {
	k := &Keystore{path: path, network: "solana", scryptN: defaultScryptN}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Path returns the file the keystore writes to.
func (k *Keystore) Path() string {
	return k.path
}

// Exists reports whether a non-empty wallet file is present.
func (k *Keystore) Exists() bool {
	info, err := os.Stat(k.path)
	return err == nil && info.Size() > 0
}

// Address reads only the address from the file (without decryption).
func (k *Keystore) Address() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := readWalletFile(k.path)
	if err != nil {
		return "", err
	}
	return f.Address, nil
}

// QR returns the PNG QR code of the address.
func (k *Keystore) QR() ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := readWalletFile(k.path)
	if err != nil {
		return nil, err
	}
	png, err := base64.StdEncoding.DecodeString(f.QR)
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR code: %w", err)
	}
	return png, nil
}

// NewMnemonic returns a fresh 12-word bip39 phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Create generates a new mnemonic-backed keypair and writes it to the file.
// The mnemonic is returned once so it can be shown to the user for backup.
// password must be []byte for security (caller should zero it after use)
func (k *Keystore) Create(password []byte) (address, mnemonic string, err error) {
	mnemonic, err = NewMnemonic()
	if err != nil {
		return "", "", err
	}
	address, err = k.Import(mnemonic, password)
	if err != nil {
		return "", "", err
	}
	return address, mnemonic, nil
}

// Import restores a keypair from a bip39 mnemonic and writes it to an empty file.
func (k *Keystore) Import(mnemonic string, password []byte) (string, error) {
	return k.store(mnemonic, password, false)
}

// Replace writes the keypair of mnemonic over any existing wallet. The new file
// is written aside and renamed into place, so a failed write keeps the old wallet.
func (k *Keystore) Replace(mnemonic string, password []byte) (string, error) {
	return k.store(mnemonic, password, true)
}

func (k *Keystore) store(mnemonic string, password []byte, replace bool) (string, error) {
	if len(password) == 0 {
		return "", ErrPasswordRequired
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !ValidMnemonic(mnemonic) {
		return "", ErrInvalidMnemonic
	}

	key := KeyFromMnemonic(mnemonic)
	defer clear(key)
	address := key.PublicKey().String()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", err
	}

	walletData := &model.WalletData{
		PrivateKey: key,
		Mnemonic:   mnemonic,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	s, err := seal(walletData, password, k.scryptN)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	file := model.CWTFile{Network: k.network, Address: address, QR: qrCode, ScryptN: k.costForFile()}
	if !replace {
		if err := writeWalletFile(k.path, file, s, true); err != nil {
			return "", err
		}
		return address, nil
	}

	tmp := k.path + ".tmp"
	if err := writeWalletFile(tmp, file, s, false); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, k.path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to replace wallet file: %w", err)
	}
	return address, nil
}

// Unlock decrypts the signing key and checks it against the stored address.
// Caller must clear the returned key after use.
func (k *Keystore) Unlock(password []byte) (solana.PrivateKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := readWalletFile(k.path)
	if err != nil {
		return nil, err
	}
	walletData, err := open(f, password)
	if err != nil {
		return nil, err
	}

	// Verify private key length (we store full 64-byte key)
	if len(walletData.PrivateKey) != ed25519.PrivateKeySize {
		clear(walletData.PrivateKey)
		return nil, fmt.Errorf("invalid private key length")
	}

	key := solana.PrivateKey(walletData.PrivateKey)
	if key.PublicKey().String() != f.Address {
		clear(key)
		return nil, ErrKeyMismatch
	}
	return key, nil
}

// Rekey re-encrypts the wallet under a new password.
// The new file is written next to the old one and renamed over it.
func (k *Keystore) Rekey(oldPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return ErrPasswordRequired
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := readWalletFile(k.path)
	if err != nil {
		return err
	}
	walletData, err := open(f, oldPassword)
	if err != nil {
		return err
	}
	defer clear(walletData.PrivateKey)

	s, err := seal(walletData, newPassword, k.scryptN)
	if err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	tmp := k.path + ".tmp"
	next := *f
	next.ScryptN = k.costForFile()
	if err := writeWalletFile(tmp, next, s, false); err != nil {
		return err
	}
	if err := os.Rename(tmp, k.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace wallet file: %w", err)
	}
	return nil
}

// Forget removes the wallet file. A missing file is not an error.
func (k *Keystore) Forget() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := os.Remove(k.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove wallet file: %w", err)
	}
	return nil
}

func (k *Keystore) costForFile() int {
	if k.scryptN == defaultScryptN {
		return 0
	}
	return k.scryptN
}

// ValidMnemonic reports whether m is a valid bip39 phrase, ignoring extra whitespace.
func ValidMnemonic(m string) bool {
	return bip39.IsMnemonicValid(strings.Join(strings.Fields(m), " "))
}

// KeyFromMnemonic derives the ed25519 keypair the same way solana-keygen does
// without a derivation path: the first 32 bytes of the bip39 seed.
func KeyFromMnemonic(mnemonic string) solana.PrivateKey {
	seed := bip39.NewSeed(mnemonic, "")
	defer clear(seed)
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]))
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
