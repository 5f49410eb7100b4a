package catalog

func DefaultPlans() []Plan {
	return []Plan{
		{
			Id:    "67c52598-c06c-4e38-a5a3-d7c647cfa0dc",
			Name:  "Emprendedor",
			Price: 99.00,
			Features: []Feature{
				{Description: "Registro de PQRs"},
				{Description: "Atención telefónica"},
				{Description: "Escalamiento automatizado"},
				{Description: "Reportes básicos"},
			},
		},
		{
			Id:    "2e3f1f37-3048-4c71-a28f-b8e8c1332c4e",
			Name:  "Empresario",
			Price: 199.00,
			Features: []Feature{
				{Description: "Todo de Emprendedor"},
				{Description: "Soporte multicanal"},
				{Description: "Llamadas salientes"},
				{Description: "Panel de control avanzado"},
			},
		},
		{
			Id:    "9d3f6f4b-6d9a-4f1f-9c9f-1c9f1c9f1c9f",
			Name:  "Empresario Plus",
			Price: 299.00,
			Features: []Feature{
				{Description: "Todas de Empresario"},
				{Description: "Análisis con IA"},
				{Description: "Modelos predictivos"},
				{Description: "Soporte con IA generativa"},
			},
		},
	}
}
