package protocol

import "errors"

// Errors returned while deserialising a frame. ErrMissingCRC and ErrCRCFailed
// come only from Deserialise, which checks a frame's trailing CRC itself.
var (
	ErrMissingRecipient = errors.New("protocol: missing recipient address")
	ErrMissingCommand   = errors.New("protocol: missing command byte")
	ErrMissingCRC       = errors.New("protocol: missing CRC byte")
	ErrCRCFailed        = errors.New("protocol: CRC check failed")
)

// CRC returns the Galaxy checksum of the message as it would appear on the
// wire: recipient address, command, then any additional data.
func (m Message) CRC() byte {
	parts := [][]byte{{m.RecipientAddress, m.Command}}
	if len(m.AdditionalData) > 0 {
		parts = append(parts, m.AdditionalData)
	}
	return CRCVectored(parts)
}

// Serialise encodes the message to its wire form, including the trailing
// CRC byte.
func (m Message) Serialise() []byte {
	out := m.SerialiseWithoutCRC()
	return append(out, m.CRC())
}

// SerialiseWithoutCRC encodes the message to its wire form, omitting the
// CRC. The bus appends the CRC itself when it transmits a request, so
// callers building a request never need to compute it.
func (m Message) SerialiseWithoutCRC() []byte {
	out := make([]byte, 0, 2+len(m.AdditionalData))
	out = append(out, m.RecipientAddress, m.Command)
	out = append(out, m.AdditionalData...)
	return out
}

// Deserialise parses a complete wire frame, including its trailing CRC byte,
// validating the CRC as part of parsing.
func Deserialise(data []byte) (Message, error) {
	if len(data) == 2 {
		return Message{}, ErrMissingCRC
	}

	msg, err := DeserialiseUnchecked(data[:len(data)-1])
	if err != nil {
		return Message{}, err
	}

	crc := data[len(data)-1]
	if msg.CRC() != crc {
		return Message{}, ErrCRCFailed
	}

	return msg, nil
}

// DeserialiseUnchecked parses a frame that does not include a trailing CRC
// byte, performing no checksum validation. The bus already validates and
// strips the CRC before handing bytes to this layer, so the manager calls
// this directly rather than Deserialise.
func DeserialiseUnchecked(data []byte) (Message, error) {
	if len(data) < 1 {
		return Message{}, ErrMissingRecipient
	}
	if len(data) < 2 {
		return Message{}, ErrMissingCommand
	}

	msg := Message{
		RecipientAddress: data[0],
		Command:          data[1],
	}

	if len(data) > 2 {
		additional := make([]byte, len(data)-2)
		copy(additional, data[2:])
		msg.AdditionalData = additional
	}

	return msg, nil
}
