package consensus

import "strconv"

// BuildMessage constructs the exact byte sequence the proof-of-work digest is
// computed over: data || timestamp? || nonce, with the numeric fields in
// canonical base-10 text and no separators. The miner and the verifier must
// produce this byte-for-byte identically; any divergence silently breaks
// verification.
//
// timestamp is milliseconds since the Unix epoch and is only included when
// withTimestamp is set (the two historical message variants).
func BuildMessage(data string, timestamp int64, withTimestamp bool, nonce uint64) []byte {
	buf := make([]byte, 0, len(data)+40)
	buf = append(buf, data...)
	if withTimestamp {
		buf = strconv.AppendInt(buf, timestamp, 10)
	}
	return strconv.AppendUint(buf, nonce, 10)
}
