package keyword

// SwedishIndicators 判断文章是否与瑞典相关：国家、城市、.se 域名、本土企业与机构
var SwedishIndicators = []string{
	// 国家
	"sweden", "sverige", "swedish",
	// 主要城市
	"stockholm", "göteborg", "gothenburg", "malmö", "malmo", "uppsala", "västerås", "vasteras",
	"örebro", "orebro", "linköping", "linkoping", "helsingborg", "jönköping", "jonkoping",
	"norrköping", "norrkoping", "lund", "umeå", "umea", "gävle", "gavle", "borås", "boras",
	// 域名
	".se",
	// 企业
	"volvo", "ericsson", "ikea", "h&m", "spotify", "klarna", "skanska", "sca", "astrazeneca",
	"nordea", "seb bank", "swedbank", "handelsbanken", "telia", "telenor", "scania",
	// 政府与机构
	"swedish government", "regeringen", "försvarsmakten", "forsvaret", "polisen",
	"msb", "cert-se", "säpo", "sapo", "försäkringskassan", "forsakringskassan",
	"skatteverket", "arbetsförmedlingen", "arbetsformedlingen",
}

// IsSwedishReference 使用与关键词过滤相同的边界规则
func IsSwedishReference(text string) bool {
	return Matches(text, SwedishIndicators)
}
