package passport

// alpha3Codes is the reference set of ISO 3166-1 alpha-3 country codes
// accepted for the nationality field.
var alpha3Codes = map[string]bool{
	"AFG": true, "ALB": true, "DZA": true, "AND": true, "AGO": true,
	"ATG": true, "ARG": true, "ARM": true, "AUS": true, "AUT": true,
	"AZE": true, "BHS": true, "BHR": true, "BGD": true, "BRB": true,
	"BLR": true, "BEL": true, "BLZ": true, "BEN": true, "BTN": true,
	"BOL": true, "BIH": true, "BWA": true, "BRA": true, "BRN": true,
	"BGR": true, "BFA": true, "BDI": true, "CPV": true, "KHM": true,
	"CMR": true, "CAN": true, "CAF": true, "TCD": true, "CHL": true,
	"CHN": true, "COL": true, "COM": true, "COG": true, "COD": true,
	"CRI": true, "CIV": true, "HRV": true, "CUB": true, "CYP": true,
	"CZE": true, "DNK": true, "DJI": true, "DMA": true, "DOM": true,
	"ECU": true, "EGY": true, "SLV": true, "GNQ": true, "ERI": true,
	"EST": true, "SWZ": true, "ETH": true, "FJI": true, "FIN": true,
	"FRA": true, "GAB": true, "GMB": true, "GEO": true, "DEU": true,
	"GHA": true, "GRC": true, "GRD": true, "GTM": true, "GIN": true,
	"GNB": true, "GUY": true, "HTI": true, "HND": true, "HUN": true,
	"ISL": true, "IND": true, "IDN": true, "IRN": true, "IRQ": true,
	"IRL": true, "ISR": true, "ITA": true, "JAM": true, "JPN": true,
	"JOR": true, "KAZ": true, "KEN": true, "KIR": true, "PRK": true,
	"KOR": true, "KWT": true, "KGZ": true, "LAO": true, "LVA": true,
	"LBN": true, "LSO": true, "LBR": true, "LBY": true, "LIE": true,
	"LTU": true, "LUX": true, "MDG": true, "MWI": true, "MYS": true,
	"MDV": true, "MLI": true, "MLT": true, "MHL": true, "MRT": true,
	"MUS": true, "MEX": true, "FSM": true, "MDA": true, "MCO": true,
	"MNG": true, "MNE": true, "MAR": true, "MOZ": true, "MMR": true,
	"NAM": true, "NRU": true, "NPL": true, "NLD": true, "NZL": true,
	"NIC": true, "NER": true, "NGA": true, "MKD": true, "NOR": true,
	"OMN": true, "PAK": true, "PLW": true, "PSE": true, "PAN": true,
	"PNG": true, "PRY": true, "PER": true, "PHL": true, "POL": true,
	"PRT": true, "QAT": true, "ROU": true, "RUS": true, "RWA": true,
	"KNA": true, "LCA": true, "VCT": true, "WSM": true, "SMR": true,
	"STP": true, "SAU": true, "SEN": true, "SRB": true, "SYC": true,
	"SLE": true, "SGP": true, "SVK": true, "SVN": true, "SLB": true,
	"SOM": true, "ZAF": true, "SSD": true, "ESP": true, "LKA": true,
	"SDN": true, "SUR": true, "SWE": true, "CHE": true, "SYR": true,
	"TWN": true, "TJK": true, "TZA": true, "THA": true, "TLS": true,
	"TGO": true, "TON": true, "TTO": true, "TUN": true, "TUR": true,
	"TKM": true, "TUV": true, "UGA": true, "UKR": true, "ARE": true,
	"GBR": true, "USA": true, "URY": true, "UZB": true, "VUT": true,
	"VAT": true, "VEN": true, "VNM": true, "YEM": true, "ZMB": true,
	"ZWE": true,
}
