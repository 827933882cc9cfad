// Package testutil builds sample extract lines for tests. Values follow the
// Cielo EDI v15.14.1 layout with field positions in the manual's 1-indexed
// notation, so each builder can be checked against the manual directly.
package testutil

import "strings"

// line assembles a fixed-width record by overwriting a space-filled buffer
// at 1-indexed positions.
type line struct {
	b []byte
}

func newLine(size int) *line {
	b := make([]byte, size)
	for i := range b {
		b[i] = ' '
	}
	return &line{b: b}
}

func (l *line) put(from int, s string) *line {
	copy(l.b[from-1:], s)
	return l
}

func (l *line) String() string {
	return string(l.b)
}

// Overwrite replaces part of an existing record at a 1-indexed position,
// used to corrupt otherwise valid sample lines.
func Overwrite(record string, from int, s string) string {
	b := []byte(record)
	copy(b[from-1:], s)
	return string(b)
}

// HeaderLine returns a header record declaring the given extract option
// (e.g. "04" for a settlement extract).
func HeaderLine(option string) string {
	return newLine(250).
		put(1, "0").
		put(2, "1234567890").   // estabelecimento matriz
		put(12, "20241218").    // data processamento
		put(20, "20241201").    // periodo inicial
		put(28, "20241231").    // periodo final
		put(36, "0000001").     // sequencia
		put(43, "CIELO").       // empresa adquirente
		put(48, option).        // opcao extrato
		put(50, "N").           // transmissao
		put(71, "151").         // versao layout
		String()
}

// URAgendaLine returns a receiving-unit schedule record: gross 1000.00,
// administrative fee 25.00, net 975.00, paid on 2024-12-18.
func URAgendaLine() string {
	return newLine(400).
		put(1, "D").
		put(2, "1234567890").
		put(12, "12345678901234").
		put(26, "12345678901234").
		put(40, "12345678901234").
		put(54, "001"). // Visa
		put(57, "002"). // credito
		put(60, "1234567890").
		put(70, "04"). // pago
		put(72, "+").
		put(73, "0000000100000").
		put(86, "-").
		put(87, "0000000002500").
		put(100, "+").
		put(101, "0000000097500").
		put(114, "0341").
		put(118, "12345").
		put(123, "12345678901234567890").
		put(143, "1").
		put(144, "000010").
		put(150, "02").
		put(268, "18122024"). // data pagamento
		put(276, "17122024").
		put(284, "15122024").
		String()
}

// LaunchDetailLine returns a launch detail record: total sale 3000.00,
// installment gross 1000.00, net 975.00, fee 25.00, launched 2024-12-18.
func LaunchDetailLine() string {
	return newLine(760).
		put(1, "E").
		put(2, "1234567890").
		put(12, "001").
		put(15, "002").
		put(18, "01").
		put(20, "03").
		put(22, "123456").
		put(28, "02").
		put(152, "0000").
		put(156, "040").
		put(166, "123456").
		put(172, "7890").
		put(176, "654321").
		put(232, "02500"). // taxa mdr 2.500
		put(237, "00000").
		put(242, "00000").
		put(247, "+").
		put(248, "0000000300000").
		put(261, "+").
		put(262, "0000000100000").
		put(275, "+").
		put(276, "0000000097500").
		put(289, "-").
		put(290, "0000000002500").
		put(471, "143025"). // hora transacao
		put(477, "01").
		put(582, "18122024"). // data lancamento
		String()
}

// PixLine returns a Pix transaction record: gross 500.00, fee 10.00,
// net 490.00, paid on 2024-12-18.
func PixLine() string {
	return newLine(400).
		put(1, "8").
		put(2, "1234567890").
		put(12, "01").
		put(14, "241218").
		put(20, "143025").
		put(26, "123e4567e89b12d3a456426614174000abcd").
		put(62, "654321").
		put(68, "241218").
		put(74, "+").
		put(75, "0000000050000").
		put(88, "-").
		put(89, "0000000001000").
		put(102, "+").
		put(103, "0000000049000").
		put(116, "0341").
		put(120, "12345").
		put(125, "12345678901234567890").
		put(145, "241218").
		put(151, "00100").
		put(156, "0100").
		put(160, "02").
		put(162, "12345678").
		put(240, "123e4567e89b12d3a456426614174111wxyz").
		String()
}

// NegotiationSummaryLine returns a negotiation summary record: gross
// 10000.00, net 9650.00, paid on 2024-12-20.
func NegotiationSummaryLine() string {
	return newLine(250).
		put(1, "A").
		put(2, "241218").
		put(8, "241220").
		put(14, "12345678901234").
		put(28, "030").
		put(31, "03500").
		put(36, "+").
		put(37, "0000001000000").
		put(50, "+").
		put(51, "0000000965000").
		put(64, "12345678901234567890").
		put(84, "001").
		put(87, "03650").
		String()
}

// NegotiationDetailLine returns a negotiation detail record: gross 5000.00,
// net 4825.00, negotiated on 2024-12-18.
func NegotiationDetailLine() string {
	return newLine(250).
		put(1, "B").
		put(2, "241218").
		put(8, "241225").
		put(14, "12345678901234").
		put(28, "001").
		put(31, "002").
		put(34, "+").
		put(35, "0000000500000").
		put(48, "+").
		put(49, "0000000482500").
		put(62, "03500").
		put(67, "Banco Exemplo").
		put(117, "1234567890").
		put(127, "-").
		put(128, "0000000017500").
		String()
}

// ReceivableAccountLine returns a receiving account record with a deposit
// of 9650.00.
func ReceivableAccountLine() string {
	return newLine(250).
		put(1, "C").
		put(2, "0341").
		put(6, "12345").
		put(11, "12345678901234567890").
		put(31, "+").
		put(32, "0000000965000").
		String()
}

// FinancialReserveLine returns a financial reserve record of 1000.00.
func FinancialReserveLine() string {
	return newLine(250).
		put(1, "R").
		put(2, "1234567890").
		put(12, "12345678901234").
		put(26, "001").
		put(29, "1234567890").
		put(39, "+").
		put(40, "0000000100000").
		String()
}

// TrailerLine returns a trailer record.
func TrailerLine() string {
	return newLine(250).
		put(1, "9").
		put(2, "00000000004").
		put(13, "+").
		put(14, "00000000000195000").
		put(31, "00000000001").
		put(42, "+").
		put(43, "00000000000200000").
		String()
}

// File joins record lines into a complete extract body.
func File(lines ...string) string {
	return strings.Join(lines, "\n")
}

// SettlementFile returns a complete CIELO04 extract with one schedule
// record and one launch detail record.
func SettlementFile() string {
	return File(HeaderLine("04"), URAgendaLine(), LaunchDetailLine(), TrailerLine())
}
