package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AlexZinkM/globepay/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the local keystore
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) keeps brute force expensive while still
	// fitting in the memory budget of small hosts.
	defaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// sealed is the encrypted part of a .cwt file.
type sealed struct {
	salt, nonce, ciphertext []byte
}

// seal encrypts wallet data with a key derived from password.
// password must be []byte for security (caller should zero it after use)
func seal(walletData *model.WalletData, password []byte, n int) (*sealed, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, n)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(walletData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	return &sealed{
		salt:       salt,
		nonce:      nonce,
		ciphertext: aesGCM.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func newGCM(password, salt []byte, n int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// writeWalletFile encrypts wallet data and writes it to path.
// exclusive refuses to touch a non-empty file.
func writeWalletFile(path string, file model.CWTFile, s *sealed, exclusive bool) error {
	if exclusive {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return fmt.Errorf("%w: %s", ErrWalletExists, path)
		}
	}

	file.Salt = base64.StdEncoding.EncodeToString(s.salt)
	file.Nonce = base64.StdEncoding.EncodeToString(s.nonce)
	file.CipherText = base64.StdEncoding.EncodeToString(s.ciphertext)

	fileData, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cwt file: %w", err)
	}

	// Add UTF-8 BOM for proper display in Windows
	fileDataWithBOM := append(append([]byte{}, utf8BOM...), fileData...)

	if err := os.WriteFile(path, fileDataWithBOM, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
