// Package domain provides the code-to-description lookup tables of the Cielo
// EDI layout: file types, card brands, settlement types, payment status and
// launch types.
//
// The tables are plain read-only maps used for O(1) lookups; Describe applies
// the layout's convention of a "not identified" fallback for unknown codes.
package domain

// DefaultDescription is the fallback returned for codes absent from a table.
const DefaultDescription = "Não identificado"

// FileTypes maps the header's extract option code to its description.
var FileTypes = map[string]string{
	"03": "Captura/Previsão",
	"04": "Liquidação/Pagamento",
	"09": "Saldo em aberto",
	"15": "Negociação de Recebíveis Cielo (NRC)",
	"16": "Pix",
}

// CardBrands maps settlement card brand codes to brand names.
var CardBrands = map[string]string{
	"001": "Visa",
	"002": "Mastercard",
	"003": "Amex",
	"006": "Elo",
	"007": "Hipercard",
	"009": "Alelo",
}

// SettlementTypes maps settlement type codes to descriptions.
var SettlementTypes = map[string]string{
	"001": "Débito",
	"002": "Crédito",
	"003": "Parcelado loja",
	"004": "Antecipação",
}

// PaymentStatus maps payment status codes to descriptions.
var PaymentStatus = map[string]string{
	"01": "Agendado",
	"02": "Enviado ao banco",
	"03": "Rejeitado",
	"04": "Pago",
}

// LaunchTypes maps launch type codes to descriptions.
var LaunchTypes = map[string]string{
	"01": "Venda débito",
	"02": "Venda crédito",
	"03": "Ajuste a crédito",
	"04": "Ajuste a débito",
	"05": "Antecipação",
}

// SaleChannels maps sale channel codes to descriptions.
var SaleChannels = map[string]string{
	"01": "POS",
	"02": "E-commerce",
	"03": "TEF",
}

// Describe returns the description of a code in the given table, falling back
// to DefaultDescription when the code is unknown.
func Describe(table map[string]string, code string) string {
	return DescribeOr(table, code, DefaultDescription)
}

// DescribeOr returns the description of a code, or the supplied fallback when
// the code is unknown.
func DescribeOr(table map[string]string, code, fallback string) string {
	if desc, ok := table[code]; ok {
		return desc
	}
	return fallback
}
