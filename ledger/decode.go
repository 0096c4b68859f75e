package ledger

// Decoders for the canonical encoding in encode.go. These are used by
// durable Store implementations to read back what PutUTXO wrote, and by
// any wire-format consumer reconstructing a Transaction from bytes.

func decodeDestination(c *cursor) (Destination, error) {
	kindByte, err := c.readU8()
	if err != nil {
		return Destination{}, err
	}
	d := Destination{Kind: DestinationKind(kindByte)}
	switch d.Kind {
	case DestPubkey:
		b, err := c.readExact(32)
		if err != nil {
			return Destination{}, newParseError("destination: truncated pubkey")
		}
		copy(d.Pubkey[:], b)
	case DestScriptHash:
		b, err := c.readExact(32)
		if err != nil {
			return Destination{}, newParseError("destination: truncated script hash")
		}
		copy(d.ScriptHash[:], b)
	case DestCreatePP:
		codeLen, err := c.readCompactSize()
		if err != nil {
			return Destination{}, err
		}
		code, err := c.readExact(int(codeLen))
		if err != nil {
			return Destination{}, newParseError("destination: truncated code")
		}
		d.Code = append([]byte(nil), code...)
		dataLen, err := c.readCompactSize()
		if err != nil {
			return Destination{}, err
		}
		data, err := c.readExact(int(dataLen))
		if err != nil {
			return Destination{}, newParseError("destination: truncated data")
		}
		d.Data = append([]byte(nil), data...)
	case DestCallPP:
		acct, err := c.readExact(32)
		if err != nil {
			return Destination{}, newParseError("destination: truncated account")
		}
		copy(d.Account[:], acct)
		fundByte, err := c.readU8()
		if err != nil {
			return Destination{}, err
		}
		d.Fund = fundByte != 0
		dataLen, err := c.readCompactSize()
		if err != nil {
			return Destination{}, err
		}
		data, err := c.readExact(int(dataLen))
		if err != nil {
			return Destination{}, newParseError("destination: truncated data")
		}
		d.Data = append([]byte(nil), data...)
	default:
		return Destination{}, newParseError("destination: unknown kind")
	}
	return d, nil
}

// DecodeDestinationFromAddress parses a Destination from the bytes an
// address payload decodes to, using the same layout EncodeOutput uses.
func DecodeDestinationFromAddress(b []byte) (Destination, error) {
	c := newCursor(b)
	return decodeDestination(c)
}

func decodeOutputData(c *cursor) (*OutputData, error) {
	present, err := c.readU8()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	kindByte, err := c.readU8()
	if err != nil {
		return nil, err
	}
	d := &OutputData{Kind: OutputDataKind(kindByte)}
	switch d.Kind {
	case DataTokenIssuanceV1:
		id, err := c.readExact(32)
		if err != nil {
			return nil, newParseError("output data: truncated token id")
		}
		copy(d.TokenID[:], id)
		tickerLen, err := c.readCompactSize()
		if err != nil {
			return nil, err
		}
		ticker, err := c.readExact(int(tickerLen))
		if err != nil {
			return nil, newParseError("output data: truncated ticker")
		}
		d.TokenTicker = string(ticker)
		amount, err := c.readU64LE()
		if err != nil {
			return nil, err
		}
		d.AmountToIssue = amount
		decimals, err := c.readU8()
		if err != nil {
			return nil, err
		}
		d.NumberOfDecimals = decimals
		uriLen, err := c.readCompactSize()
		if err != nil {
			return nil, err
		}
		uri, err := c.readExact(int(uriLen))
		if err != nil {
			return nil, newParseError("output data: truncated metadata uri")
		}
		d.MetadataURI = string(uri)
	case DataTokenTransferV1:
		id, err := c.readExact(32)
		if err != nil {
			return nil, newParseError("output data: truncated token id")
		}
		copy(d.TokenID[:], id)
		amount, err := c.readU64LE()
		if err != nil {
			return nil, err
		}
		d.Amount = amount
	case DataTokenBurnV1:
		id, err := c.readExact(32)
		if err != nil {
			return nil, newParseError("output data: truncated token id")
		}
		copy(d.TokenID[:], id)
		amount, err := c.readU64LE()
		if err != nil {
			return nil, err
		}
		d.AmountToBurn = amount
	case DataNftMintV1:
		id, err := c.readExact(32)
		if err != nil {
			return nil, newParseError("output data: truncated token id")
		}
		copy(d.TokenID[:], id)
		hash, err := c.readExact(32)
		if err != nil {
			return nil, newParseError("output data: truncated data hash")
		}
		copy(d.DataHash[:], hash)
		uriLen, err := c.readCompactSize()
		if err != nil {
			return nil, err
		}
		uri, err := c.readExact(int(uriLen))
		if err != nil {
			return nil, newParseError("output data: truncated metadata uri")
		}
		d.MetadataURI = string(uri)
	default:
		return nil, newParseError("output data: unknown kind")
	}
	return d, nil
}

// DecodeOutput parses a single TransactionOutput from its canonical bytes.
func DecodeOutput(b []byte) (TransactionOutput, error) {
	c := newCursor(b)
	value, err := c.readU64LE()
	if err != nil {
		return TransactionOutput{}, err
	}
	dest, err := decodeDestination(c)
	if err != nil {
		return TransactionOutput{}, err
	}
	data, err := decodeOutputData(c)
	if err != nil {
		return TransactionOutput{}, err
	}
	return TransactionOutput{Value: value, Destination: dest, Data: data}, nil
}
