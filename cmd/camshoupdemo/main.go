package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/go-camshoup/verenc/common"
	"github.com/go-camshoup/verenc/crypto/camshoup"
)

func main() {
	capacity := flag.Int("capacity", 3, "maximum number of messages per ciphertext")
	domain := flag.String("domain", "camshoupdemo", "domain separation label bound into the hash and the proof")
	flag.Parse()

	if *capacity < 1 {
		fmt.Fprintln(os.Stderr, "capacity must be >= 1")
		os.Exit(1)
	}

	fmt.Printf("===========GROUP[%d] Start [KEYGEN]===========\n", *capacity)
	grp, err := camshoup.RandomGroup(context.Background())
	if err != nil {
		panic(err)
	}
	ek, dk, err := grp.NewKeys(*capacity)
	if err != nil {
		panic(err)
	}
	common.Logger.Infof("generated a capacity-%d key pair over a %d-bit modulus", *capacity, grp.N().BitLen())
	fmt.Printf("===========GROUP[%d] End [KEYGEN]===========\n", *capacity)

	msgs := make([]*big.Int, *capacity)
	for i := range msgs {
		msgs[i] = big.NewInt(int64(i + 1))
	}

	fmt.Printf("===========ENCRYPT[%s] Start [PROVE]===========\n", *domain)
	ct, proof, err := ek.EncryptAndProve([]byte(*domain), msgs)
	if err != nil {
		panic(err)
	}
	out, _ := json.MarshalIndent(ct, "", "  ")
	fmt.Printf("ciphertext:\n%s\n", string(out))
	fmt.Printf("===========ENCRYPT[%s] End [PROVE]===========\n", *domain)

	if err := ek.Verify([]byte(*domain), ct, proof); err != nil {
		common.Logger.Errorf("proof verification failed: %v", err)
		os.Exit(1)
	}
	fmt.Println("proof verified")

	got, err := dk.Decrypt([]byte(*domain), ct)
	if err != nil {
		common.Logger.Errorf("decryption failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("decrypted: %v\n", got)

	dk.Zeroize()
}
