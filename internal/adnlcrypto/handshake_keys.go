package adnlcrypto

import "fmt"

// BasisSize is the size of the handshake basis buffer in bytes: four
// 32-byte key halves followed by two 16-byte counter halves.
const BasisSize = 160

// InitialCipher builds the one-shot cipher used to encrypt/decrypt the
// 160-byte handshake basis, derived from the ECDH shared secret x and the
// plaintext-basis checksum y:
//
//	key     = x[0:16]  || y[16:32]
//	counter = y[0:4]   || x[20:32]
func InitialCipher(shared, checksum [KeySize]byte) (*Cipher, error) {
	var key [KeySize]byte
	copy(key[0:16], shared[0:16])
	copy(key[16:32], checksum[16:32])

	var counter [CounterSize]byte
	copy(counter[0:4], checksum[0:4])
	copy(counter[4:16], shared[20:32])

	c, err := NewCipher(key, counter)
	if err != nil {
		return nil, fmt.Errorf("adnlcrypto: derive initial cipher: %w", err)
	}
	return c, nil
}

// BasisHalves are the four 32-byte key halves and two 16-byte counter
// halves carried by a decrypted handshake basis.
type BasisHalves struct {
	KA, KB [KeySize]byte
	CA, CB [CounterSize]byte
}

// SplitBasis interprets a 160-byte decrypted handshake basis into its four
// key/counter halves. The trailing 64 bytes of the basis are unused.
func SplitBasis(basis [BasisSize]byte) BasisHalves {
	var h BasisHalves
	copy(h.KA[:], basis[0:32])
	copy(h.KB[:], basis[32:64])
	copy(h.CA[:], basis[64:80])
	copy(h.CB[:], basis[80:96])
	return h
}

// SessionCiphers builds the (recv, send) cipher pair for one side of the
// connection from the basis halves. The client uses recv=AES(KA,CA),
// send=AES(KB,CB); the server uses the swapped assignment.
func SessionCiphers(h BasisHalves, isClient bool) (recv, send *Cipher, err error) {
	if isClient {
		if recv, err = NewCipher(h.KA, h.CA); err != nil {
			return nil, nil, err
		}
		if send, err = NewCipher(h.KB, h.CB); err != nil {
			return nil, nil, err
		}
		return recv, send, nil
	}

	if recv, err = NewCipher(h.KB, h.CB); err != nil {
		return nil, nil, err
	}
	if send, err = NewCipher(h.KA, h.CA); err != nil {
		return nil, nil, err
	}
	return recv, send, nil
}
