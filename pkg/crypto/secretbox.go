package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// ============================================================================
// 审批令牌加解密
// ============================================================================
//
// 令牌格式：hex(nonce) + hex(ciphertext)
// nonce 为 24 字节（hex 后 48 个字符），密钥为 32 字节 hex 配置。
// 解密失败时 Unhash 原样返回输入 —— 调用方通过"输出 == 输入"判定令牌无效，
// 不能把解密失败当成有效令牌放行。

const nonceHexLen = 48

var (
	ErrEmptyValue = errors.New("value is empty")
	ErrBadSecret  = errors.New("secret key must be 64 hex characters")
)

// Codec 基于 secretbox 的令牌编解码器
type Codec struct {
	key [32]byte
}

// NewCodec 从 hex 密钥创建编解码器
func NewCodec(secretHex string) (*Codec, error) {
	raw, err := hex.DecodeString(secretHex)
	if err != nil || len(raw) != 32 {
		return nil, ErrBadSecret
	}
	c := &Codec{}
	copy(c.key[:], raw)
	return c, nil
}

// Hash 加密一个值，返回 hex(nonce)+hex(ciphertext)
func (c *Codec) Hash(value string) (string, error) {
	if value == "" {
		return "", ErrEmptyValue
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}

	sealed := secretbox.Seal(nil, []byte(value), &nonce, &c.key)
	return hex.EncodeToString(nonce[:]) + hex.EncodeToString(sealed), nil
}

// Unhash 解密令牌；解密失败时原样返回输入
func (c *Codec) Unhash(encrypted string) string {
	if encrypted == "" {
		return ""
	}
	if len(encrypted) <= nonceHexLen {
		return encrypted
	}

	nonceRaw, err := hex.DecodeString(encrypted[:nonceHexLen])
	if err != nil || len(nonceRaw) != 24 {
		return encrypted
	}
	cipherRaw, err := hex.DecodeString(encrypted[nonceHexLen:])
	if err != nil {
		return encrypted
	}

	var nonce [24]byte
	copy(nonce[:], nonceRaw)

	plain, ok := secretbox.Open(nil, cipherRaw, &nonce, &c.key)
	if !ok {
		return encrypted
	}
	return string(plain)
}
