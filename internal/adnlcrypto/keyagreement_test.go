package adnlcrypto

import "testing"

func TestGenerateKeyPair(t *testing.T) {
	priv1, pub1, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	var zero [KeySize]byte
	if priv1 == zero {
		t.Error("private key is zero")
	}
	if pub1 == zero {
		t.Error("public key is zero")
	}

	priv2, pub2, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() second call error = %v", err)
	}

	if priv1 == priv2 {
		t.Error("two generated private keys are identical")
	}
	if pub1 == pub2 {
		t.Error("two generated public keys are identical")
	}
}

func TestComputeSharedSymmetric(t *testing.T) {
	privA, pubA, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() A error = %v", err)
	}
	privB, pubB, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() B error = %v", err)
	}

	secretA, err := ComputeShared(privA, pubB)
	if err != nil {
		t.Fatalf("ComputeShared(A, pubB) error = %v", err)
	}
	secretB, err := ComputeShared(privB, pubA)
	if err != nil {
		t.Fatalf("ComputeShared(B, pubA) error = %v", err)
	}

	if secretA != secretB {
		t.Error("shared secrets do not match")
	}

	var zero [KeySize]byte
	if secretA == zero {
		t.Error("shared secret is zero")
	}
}

func TestComputeSharedZeroKey(t *testing.T) {
	priv, _, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	var zero [KeySize]byte
	if _, err := ComputeShared(priv, zero); err == nil {
		t.Fatal("expected error for zero peer public key")
	}
}

func TestKeyID(t *testing.T) {
	var pub [KeySize]byte
	for i := range pub {
		pub[i] = byte(i)
	}

	id1 := KeyID(pub)
	id2 := KeyID(pub)
	if id1 != id2 {
		t.Fatal("KeyID is not deterministic")
	}

	pub[0] ^= 0xFF
	id3 := KeyID(pub)
	if id1 == id3 {
		t.Fatal("KeyID did not change for a different public key")
	}
}
