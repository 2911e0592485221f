package ledger

import (
	"github.com/cespare/xxhash/v2"

	"github.com/dshills/traitforge/pkg/model"
)

const (
	loDomainTag = "traitforge:lo"
	hiDomainTag = "traitforge:hi"
)

// fingerprint builds a 128-bit model.UniquenessKey from a's canonical byte
// encoding: two domain-separated 64-bit xxhash digests, so the low and high
// halves are not simply the same 64 bits duplicated.
func fingerprint(a model.Assignment) model.UniquenessKey {
	canon := a.CanonicalBytes()

	lo := xxhash.New()
	lo.WriteString(loDomainTag)
	lo.Write(canon)

	hi := xxhash.New()
	hi.WriteString(hiDomainTag)
	hi.Write(canon)

	var key model.UniquenessKey
	putUint64(key[0:8], lo.Sum64())
	putUint64(key[8:16], hi.Sum64())
	return key
}

func putUint64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}
