package codec

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest 返回 data 的 BLAKE3-256 摘要（十六进制）
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
