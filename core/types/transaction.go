// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

// Package types contains the data types consumed by the execution engine.
package types

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/veilchain/veil/common"
	"github.com/veilchain/veil/crypto"
)

// Transaction is a single executable unit of work. The sender is carried
// explicitly: signature recovery happens upstream of this engine.
type Transaction struct {
	Sender   common.Address  `json:"sender"`             // account paying for and authorizing the execution
	To       *common.Address `json:"to,omitempty"`       // nil means contract creation
	Nonce    uint64          `json:"nonce"`              // sender account nonce the transaction is valid against
	Value    *uint256.Int    `json:"value,omitempty"`    // amount of native currency transferred to the recipient
	GasPrice *uint256.Int    `json:"gasPrice,omitempty"` // price per unit of gas
	GasLimit uint64          `json:"gasLimit"`           // maximum gas available to the execution
	Payload  common.Bytes    `json:"payload,omitempty"`  // init code for creations, call data otherwise
}

// IsContractCreation reports whether the transaction deploys new code.
func (tx *Transaction) IsContractCreation() bool {
	return tx.To == nil
}

// ValueOrZero returns the transferred value, treating nil as zero.
func (tx *Transaction) ValueOrZero() *uint256.Int {
	if tx.Value == nil {
		return new(uint256.Int)
	}
	return tx.Value
}

// Hash computes the content digest of the transaction. Two transactions
// with identical fields hash identically.
func (tx *Transaction) Hash() common.Hash {
	var (
		nonce [8]byte
		gas   [8]byte
		value [32]byte
		price [32]byte
	)
	binary.BigEndian.PutUint64(nonce[:], tx.Nonce)
	binary.BigEndian.PutUint64(gas[:], tx.GasLimit)
	value = tx.ValueOrZero().Bytes32()
	if tx.GasPrice != nil {
		price = tx.GasPrice.Bytes32()
	}
	to := []byte{}
	if tx.To != nil {
		to = tx.To.Bytes()
	}
	return crypto.Keccak256Hash(tx.Sender.Bytes(), to, nonce[:], value[:], price[:], gas[:], tx.Payload)
}
