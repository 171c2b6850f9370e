package celoginutil

import (
	"testing"

	"github.com/openbmc-project/celogin/celoginrc"
)

func TestCreateDigest(t *testing.T) {
	digest, code := CreateDigest([]byte("hello"))
	if code != celoginrc.Success {
		t.Fatalf("CreateDigest failed: %v", code)
	}
	if len(digest) != DigestSize {
		t.Errorf("digest length = %d, want %d", len(digest), DigestSize)
	}
	if _, code := CreateDigest(nil); code != celoginrc.CreateDigestInvalidParm {
		t.Errorf("CreateDigest(nil) code = %v, want CreateDigestInvalidParm", code)
	}
}

func TestCreatePasswordHash(t *testing.T) {
	h1, code := CreatePasswordHash([]byte("hunter2"), []byte("salt"), 1000, 32)
	if code != celoginrc.Success {
		t.Fatalf("CreatePasswordHash failed: %v", code)
	}
	h2, _ := CreatePasswordHash([]byte("hunter2"), []byte("salt"), 1000, 32)
	if !ConstantTimeCompare(h1, h2) {
		t.Error("identical inputs produced different hashes")
	}
	if _, code := CreatePasswordHash([]byte("x"), []byte("salt"), 0, 32); code != celoginrc.CreatePasswordHashInvalidIterations {
		t.Errorf("zero iterations code = %v, want CreatePasswordHashInvalidIterations", code)
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("equal slices compared unequal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("unequal slices compared equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("ab")) {
		t.Error("different-length slices compared equal")
	}
}

func TestHexToBin(t *testing.T) {
	out, code := HexToBin("48656c6c6f")
	if code != celoginrc.Success || string(out) != "Hello" {
		t.Errorf("HexToBin = %q, %v", out, code)
	}
	if _, code := HexToBin("abc"); code != celoginrc.HexToBinOddLength {
		t.Errorf("odd length code = %v, want HexToBinOddLength", code)
	}
	if _, code := HexToBin("zz"); code != celoginrc.HexToBinInvalidChar {
		t.Errorf("invalid char code = %v, want HexToBinInvalidChar", code)
	}
}

func TestGetUnsignedIntFromString(t *testing.T) {
	v, code := GetUnsignedIntFromString("12345")
	if code != celoginrc.Success || v != 12345 {
		t.Errorf("GetUnsignedIntFromString = %d, %v", v, code)
	}
	if _, code := GetUnsignedIntFromString("12a45"); code != celoginrc.GetUnsignedIntFromStringInvalidChar {
		t.Errorf("non-digit code = %v, want GetUnsignedIntFromStringInvalidChar", code)
	}
	if _, code := GetUnsignedIntFromString("12345678901"); code != celoginrc.GetUnsignedIntFromStringTooLong {
		t.Errorf("too long code = %v, want GetUnsignedIntFromStringTooLong", code)
	}
}
