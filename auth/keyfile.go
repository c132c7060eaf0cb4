package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const keyFileVersion = 1

// scrypt cost parameters of new key files.
var (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

const (
	scryptKeyLen = 32
	saltLen      = 16
)

var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

type scryptParams struct {
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
	Salt []byte `json:"salt"`
}

// keyFile is the on-disk form of a signing key. The secret is sealed with
// AES-GCM under a key derived from the passphrase with scrypt.
type keyFile struct {
	Version int              `json:"version"`
	Address solana.PublicKey `json:"address"`
	KDF     scryptParams     `json:"kdf"`
	Nonce   []byte           `json:"nonce"`
	Cipher  []byte           `json:"cipher"`
}

func newGCM(passphrase []byte, kdf scryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, kdf.Salt, kdf.N, kdf.R, kdf.P, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "derive key encryption key")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptKey seals key under passphrase.
func EncryptKey(key solana.PrivateKey, passphrase []byte) ([]byte, error) {
	kdf := scryptParams{N: scryptN, R: scryptR, P: scryptP, Salt: make([]byte, saltLen)}
	if _, err := io.ReadFull(rand.Reader, kdf.Salt); err != nil {
		return nil, err
	}
	gcm, err := newGCM(passphrase, kdf)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	address := key.PublicKey()
	return json.MarshalIndent(keyFile{
		Version: keyFileVersion,
		Address: address,
		KDF:     kdf,
		Nonce:   nonce,
		Cipher:  gcm.Seal(nil, nonce, key, address.Bytes()),
	}, "", "  ")
}

// DecryptKey opens a key sealed by EncryptKey. A wrong passphrase yields ErrWrongPassphrase.
func DecryptKey(data, passphrase []byte) (solana.PrivateKey, error) {
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, errors.Wrap(err, "parse key file")
	}
	if kf.Version != keyFileVersion {
		return nil, errors.Errorf("unsupported key file version %d", kf.Version)
	}
	gcm, err := newGCM(passphrase, kf.KDF)
	if err != nil {
		return nil, err
	}
	if len(kf.Nonce) != gcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	plain, err := gcm.Open(nil, kf.Nonce, kf.Cipher, kf.Address.Bytes())
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	key := solana.PrivateKey(plain)
	if !key.PublicKey().Equals(kf.Address) {
		return nil, ErrWrongPassphrase
	}
	return key, nil
}

// GenerateKeyFile creates a new key and stores it at path, sealed under passphrase.
func GenerateKeyFile(path string, passphrase []byte) (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	if err = SaveKeyFile(path, key, passphrase); err != nil {
		return nil, err
	}
	return key, nil
}

func SaveKeyFile(path string, key solana.PrivateKey, passphrase []byte) error {
	if len(passphrase) == 0 {
		return errors.New("empty passphrase")
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("key file %s already exists", path)
	}
	data, err := EncryptKey(key, passphrase)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "create key dir")
	}
	return ioutil.WriteFile(path, data, 0600)
}

func LoadKeyFile(path string, passphrase []byte) (solana.PrivateKey, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	key, err := DecryptKey(data, passphrase)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return key, nil
}
