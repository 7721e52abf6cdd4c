package zipstore

import "sync"

// polynomial is the reflected IEEE 802.3 polynomial.
const polynomial = 0xEDB88320

var (
	crcTable     [256]uint32
	crcTableOnce sync.Once
)

func buildTable() {
	for i := range crcTable {
		c := uint32(i)
		for range 8 {
			if c&1 != 0 {
				c = polynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		crcTable[i] = c
	}
}

// Checksum returns the CRC-32 of data as stored in ZIP headers.
// Checksum(nil) is 0.
func Checksum(data []byte) uint32 {
	return Update(0, data)
}

// Update returns the CRC-32 of the bytes summarized by crc followed by data.
func Update(crc uint32, data []byte) uint32 {
	crcTableOnce.Do(buildTable)

	c := ^crc
	for _, b := range data {
		c = crcTable[byte(c)^b] ^ (c >> 8)
	}
	return ^c
}
