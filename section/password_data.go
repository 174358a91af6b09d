package section

import (
	"github.com/nsavage/medio/aesutil"
)

// AccessLevel is the effective access level a password unlocks.
type AccessLevel uint8

const (
	AccessNone   AccessLevel = 0
	AccessLevel1 AccessLevel = 1
	AccessLevel2 AccessLevel = 2
)

// PasswordData is the 384-byte structure described in spec §3: two
// expanded AES-128 key schedules, two hint strings, and the effective
// access level. It is never written verbatim to disk as a single blob in
// this implementation — the universal header's three 16-byte
// password-validation fields are the on-disk representation;
// PasswordData is the decoded,
// in-memory form FPS derives from a supplied password and the header's
// validation fields.
type PasswordData struct {
	Level1Key *aesutil.ExpandedKey
	Level2Key *aesutil.ExpandedKey
	Level1Hint string
	Level2Hint string
	Level      AccessLevel
}

// DeriveLevel1 derives the level-1 key schedule from a UTF-8 password.
func DeriveLevel1(password string) (*aesutil.ExpandedKey, error) {
	return aesutil.NewExpandedKey(aesutil.DeriveKey(password))
}

// DeriveLevel2 derives the level-2 key schedule from a UTF-8 password.
// Level 2 additionally unlocks level 1 via an encrypted recovery block
// carried in the universal header (spec §3); callers obtain the level-1
// key by decrypting that block with the level-2 key via
// RecoverLevel1FromRecoveryBlock.
func DeriveLevel2(password string) (*aesutil.ExpandedKey, error) {
	return aesutil.NewExpandedKey(aesutil.DeriveKey(password))
}

// ValidationMatches checks a derived key's raw bytes against one of the
// universal header's three password-validation fields (spec §4.1: "the
// password-validation fields matched against the supplied expanded
// key"). MED validates by re-encrypting a known plaintext with the
// candidate key and comparing to the stored validation field, which this
// helper models directly: the validation field is itself the encrypted
// form of the session UID's 8 bytes repeated to fill one AES block,
// decided at file-creation time (see fps.DeriveValidationField).
func ValidationMatches(key *aesutil.ExpandedKey, validationField [16]byte, plaintext [16]byte) bool {
	candidate := plaintext
	key.EncryptECB(candidate[:])

	return candidate == validationField
}

// RecoverLevel1FromRecoveryBlock decrypts a level-1 key's 16 raw bytes
// from a recovery block that was encrypted with the level-2 key.
func RecoverLevel1FromRecoveryBlock(level2 *aesutil.ExpandedKey, recoveryBlock [16]byte) (*aesutil.ExpandedKey, error) {
	raw := recoveryBlock
	level2.DecryptECB(raw[:])

	var key [16]byte
	copy(key[:], raw[:])

	return aesutil.NewExpandedKey(key)
}
