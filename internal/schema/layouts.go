package schema

import "github.com/jhamerski/cielo-edi/internal/model"

// The layout tables below transcribe the Cielo EDI v15.14.1 manual. Field
// positions use the manual's 1-indexed inclusive from/to notation and are
// converted to 0-based offsets by the constructors, so the tables can be
// checked against the manual line by line. Gaps between fields are reserved
// filler in the physical layout.

func text(name string, from, to int) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindText}
}

func integer(name string, from, to int) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindInteger}
}

// money is an implied 2-decimal amount, the layout's monetary convention.
func money(name string, from, to int) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindDecimal, Scale: 2}
}

// rate is an implied 3-decimal percentage.
func rate(name string, from, to int) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindDecimal, Scale: 3}
}

func date(name string, from, to int, layout DateLayout) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindDate, DateLayout: layout}
}

func clock(name string, from, to int) FieldDescriptor {
	return FieldDescriptor{Name: name, Start: from - 1, Len: to - from + 1, Kind: KindTime}
}

func req(d FieldDescriptor) FieldDescriptor {
	d.Required = true
	return d
}

// The layout tables are shared by every registry, so any derived data must be
// in place before a schema can be reached by a decoder.
func init() {
	for _, s := range layouts {
		s.names = make([]string, len(s.Fields))
		for i, f := range s.Fields {
			s.names[i] = f.Name
		}
	}
}

// recordTypesByFile encodes which record types are valid per file type.
var recordTypesByFile = map[model.FileType][]model.RecordType{
	model.FileCielo03: {model.RecordHeader, model.RecordURAgenda, model.RecordLaunchDetail, model.RecordTrailer},
	model.FileCielo04: {model.RecordHeader, model.RecordURAgenda, model.RecordLaunchDetail, model.RecordTrailer},
	model.FileCielo09: {model.RecordHeader, model.RecordURAgenda, model.RecordLaunchDetail, model.RecordTrailer},
	model.FileCielo15: {
		model.RecordHeader, model.RecordNegotiationSummary, model.RecordNegotiationDetail,
		model.RecordReceivableAccount, model.RecordFinancialReserve, model.RecordTrailer,
	},
	model.FileCielo16: {model.RecordHeader, model.RecordPix, model.RecordTrailer},
}

var layouts = []*Schema{
	{
		Record:  model.RecordHeader,
		LineLen: 250,
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("estabelecimento_matriz", 2, 11)),
			date("data_processamento", 12, 19, DateYYYYMMDD),
			date("periodo_inicial", 20, 27, DateYYYYMMDD),
			date("periodo_final", 28, 35, DateYYYYMMDD),
			req(text("sequencia", 36, 42)),
			req(text("empresa_adquirente", 43, 47)),
			req(text("opcao_extrato", 48, 49)),
			req(text("transmissao", 50, 50)),
			text("caixa_postal", 51, 70),
			req(text("versao_layout", 71, 73)),
		},
	},
	{
		Record:          model.RecordURAgenda,
		LineLen:         400,
		GrossField:      "valor_bruto",
		NetField:        "valor_liquido",
		SettlementField: "data_pagamento",
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("estabelecimento_submissor", 2, 11)),
			req(text("cpf_cnpj_titular", 12, 25)),
			req(text("cpf_cnpj_titular_movimento", 26, 39)),
			req(text("cpf_cnpj_recebedor", 40, 53)),
			req(text("bandeira", 54, 56)),
			req(text("tipo_liquidacao", 57, 59)),
			req(text("matriz_pagamento", 60, 69)),
			req(text("status_pagamento", 70, 71)),
			req(text("sinal_valor_bruto", 72, 72)),
			req(money("valor_bruto", 73, 85)),
			req(text("sinal_taxa_administrativa", 86, 86)),
			req(money("valor_taxa_administrativa", 87, 99)),
			req(text("sinal_valor_liquido", 100, 100)),
			req(money("valor_liquido", 101, 113)),
			req(text("banco", 114, 117)),
			req(text("agencia", 118, 122)),
			req(text("conta", 123, 142)),
			req(text("digito_conta", 143, 143)),
			req(integer("quantidade_lancamentos", 144, 149)),
			req(text("tipo_lancamento", 150, 151)),
			text("chave_ur", 152, 251),
			date("data_pagamento", 268, 275, DateDDMMYYYY),
			date("data_envio_banco", 276, 283, DateDDMMYYYY),
			date("data_vencimento_original", 284, 291, DateDDMMYYYY),
			text("numero_estabelecimento_pagamento", 292, 301),
			text("indicativo_lancamento_pendente", 302, 302),
			text("indicativo_reenvio_pagamento", 303, 303),
			text("indicativo_negociacao_gravame", 304, 304),
			text("cpf_cnpj_negociador", 305, 318),
			text("indicativo_saldo_aberto", 319, 319),
		},
	},
	{
		Record:          model.RecordLaunchDetail,
		LineLen:         760,
		GrossField:      "valor_bruto_venda_parcela",
		NetField:        "valor_liquido_venda",
		SettlementField: "data_lancamento",
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("estabelecimento_submissor", 2, 11)),
			req(text("bandeira_liquidacao", 12, 14)),
			req(text("tipo_liquidacao", 15, 17)),
			req(integer("parcela", 18, 19)),
			req(integer("numero_total_parcelas", 20, 21)),
			req(text("codigo_autorizacao", 22, 27)),
			req(text("tipo_lancamento", 28, 29)),
			text("chave_ur", 30, 129),
			text("codigo_transacao_recebida", 130, 151),
			text("codigo_ajuste", 152, 155),
			req(text("forma_pagamento", 156, 158)),
			text("bin_cartao", 166, 171),
			text("numero_cartao", 172, 175),
			req(text("nsu_doc", 176, 181)),
			text("numero_nota_fiscal", 182, 191),
			text("tid", 192, 211),
			text("codigo_pedido_referencia", 212, 231),
			req(rate("taxa_mdr", 232, 236)),
			rate("taxa_recebimento_automatico", 237, 241),
			rate("taxa_venda", 242, 246),
			req(text("sinal_valor_total_venda", 247, 247)),
			req(money("valor_total_venda", 248, 260)),
			req(text("sinal_valor_bruto", 261, 261)),
			req(money("valor_bruto_venda_parcela", 262, 274)),
			req(text("sinal_valor_liquido", 275, 275)),
			req(money("valor_liquido_venda", 276, 288)),
			req(text("sinal_valor_comissao", 289, 289)),
			req(money("valor_comissao", 290, 302)),
			clock("hora_transacao", 471, 476),
			text("grupo_cartoes", 477, 478),
			text("cpf_cnpj_recebedor", 479, 492),
			text("bandeira_autorizacao", 493, 495),
			text("codigo_unico_venda", 496, 510),
			text("canal_venda", 541, 543),
			text("numero_terminal", 544, 551),
			text("codigo_modelo_precificacao", 561, 565),
			date("data_autorizacao_venda", 566, 573, DateDDMMYYYY),
			date("data_captura", 574, 581, DateDDMMYYYY),
			date("data_lancamento", 582, 589, DateDDMMYYYY),
			date("data_original_lancamento", 590, 597, DateDDMMYYYY),
			text("numero_lote", 598, 604),
			date("data_vencimento_original", 630, 637, DateDDMMYYYY),
			text("matriz_pagamento", 638, 647),
			text("tipo_cartao", 648, 649),
			text("origem_cartao", 650, 650),
			text("arn", 683, 705),
			text("tipo_captura", 707, 708),
		},
	},
	{
		Record:          model.RecordPix,
		LineLen:         400,
		GrossField:      "valor_bruto",
		NetField:        "valor_liquido",
		SettlementField: "data_pagamento",
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("estabelecimento_submissor", 2, 11)),
			req(text("tipo_transacao", 12, 13)),
			date("data_transacao", 14, 19, DateYYMMDD),
			clock("hora_transacao", 20, 25),
			req(text("id_pix", 26, 61)),
			req(text("nsu_doc", 62, 67)),
			date("data_pagamento", 68, 73, DateYYMMDD),
			req(text("sinal_valor_bruto", 74, 74)),
			req(money("valor_bruto", 75, 87)),
			req(text("sinal_taxa_administrativa", 88, 88)),
			req(money("valor_taxa_administrativa", 89, 101)),
			req(text("sinal_valor_liquido", 102, 102)),
			req(money("valor_liquido", 103, 115)),
			req(text("banco", 116, 119)),
			req(text("agencia", 120, 124)),
			req(text("conta", 125, 144)),
			date("data_captura_transacao", 145, 150, DateYYMMDD),
			money("taxa_administrativa", 151, 155),
			money("tarifa_administrativa", 156, 159),
			text("canal_venda", 160, 161),
			text("numero_logico_terminal", 162, 169),
			text("tx_id", 240, 275),
		},
	},
	{
		Record:          model.RecordNegotiationSummary,
		LineLen:         250,
		GrossField:      "valor_bruto",
		NetField:        "valor_liquido",
		SettlementField: "data_pagamento",
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			date("data_negociacao", 2, 7, DateYYMMDD),
			date("data_pagamento", 8, 13, DateYYMMDD),
			req(text("cpf_cnpj", 14, 27)),
			req(integer("prazo_medio", 28, 30)),
			req(rate("taxa_nominal", 31, 35)),
			req(text("sinal_valor_bruto", 36, 36)),
			req(money("valor_bruto", 37, 49)),
			req(text("sinal_valor_liquido", 50, 50)),
			req(money("valor_liquido", 51, 63)),
			text("numero_negociacao_registradora", 64, 83),
			text("forma_pagamento", 84, 86),
			rate("taxa_efetiva_negociacao", 87, 91),
		},
	},
	{
		Record:          model.RecordNegotiationDetail,
		LineLen:         250,
		GrossField:      "valor_bruto",
		NetField:        "valor_liquido",
		SettlementField: "data_negociacao",
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			date("data_negociacao", 2, 7, DateYYMMDD),
			date("data_vencimento_original", 8, 13, DateYYMMDD),
			req(text("cpf_cnpj", 14, 27)),
			req(text("bandeira", 28, 30)),
			text("tipo_liquidacao", 31, 33),
			req(text("sinal_valor_bruto", 34, 34)),
			req(money("valor_bruto", 35, 47)),
			req(text("sinal_valor_liquido", 48, 48)),
			req(money("valor_liquido", 49, 61)),
			rate("taxa_efetiva", 62, 66),
			text("instituicao_financeira", 67, 116),
			text("numero_estabelecimento", 117, 126),
			text("sinal_valor_desconto", 127, 127),
			money("valor_desconto", 128, 140),
		},
	},
	{
		Record:  model.RecordReceivableAccount,
		LineLen: 250,
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("banco", 2, 5)),
			req(text("agencia", 6, 10)),
			req(text("conta", 11, 30)),
			req(text("sinal_valor_depositado", 31, 31)),
			req(money("valor_depositado", 32, 44)),
		},
	},
	{
		Record:  model.RecordFinancialReserve,
		LineLen: 250,
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(text("estabelecimento_submissor", 2, 11)),
			req(text("cpf_cnpj_titular_movimento", 12, 25)),
			req(text("bandeira", 26, 28)),
			req(text("matriz_pagamento", 29, 38)),
			req(text("sinal_valor_reserva", 39, 39)),
			req(money("valor_reserva", 40, 52)),
			text("chave_ur", 53, 152),
			date("data_vencimento_original", 153, 160, DateDDMMYYYY),
			text("numero_estabelecimento_pagamento", 161, 170),
		},
	},
	{
		Record:  model.RecordTrailer,
		LineLen: 250,
		Fields: []FieldDescriptor{
			req(text("tipo_registro", 1, 1)),
			req(integer("total_registros", 2, 12)),
			req(text("sinal_valor_liquido", 13, 13)),
			req(money("valor_liquido_soma", 14, 30)),
			req(integer("quantidade_registro_e", 31, 41)),
			req(text("sinal_valor_bruto", 42, 42)),
			req(money("valor_bruto_soma", 43, 59)),
			text("sinal_valor_liquido_cedido", 60, 60),
			money("valor_liquido_cedido", 61, 77),
			text("sinal_valor_liquido_gravame", 78, 78),
			money("valor_liquido_gravame", 79, 95),
		},
	},
}
