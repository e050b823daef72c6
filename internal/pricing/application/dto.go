package application

// OptionPriceRequest 期权定价请求 DTO
type OptionPriceRequest struct {
	OptionType    string  `json:"option_type"`    // CALL / PUT
	Spot          float64 `json:"spot"`           // 标的现价
	Strike        float64 `json:"strike"`         // 行权价
	TimeToExpiry  float64 `json:"time_to_expiry"` // 到期时间 (年)
	RiskFreeRate  float64 `json:"risk_free_rate"` // 无风险利率
	DividendYield float64 `json:"dividend_yield"` // 连续股息率
	Volatility    float64 `json:"volatility"`     // 年化波动率
}

// OptionPriceDTO 定价结果 DTO
type OptionPriceDTO struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// ImpliedVolRequest 隐含波动率反解请求 DTO
type ImpliedVolRequest struct {
	OptionType    string  `json:"option_type"`
	MarketPrice   float64 `json:"market_price"` // 期权市场价
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	TimeToExpiry  float64 `json:"time_to_expiry"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	DividendYield float64 `json:"dividend_yield"`
}

// ImpliedVolDTO 隐含波动率结果 DTO
type ImpliedVolDTO struct {
	ImpliedVolatility float64 `json:"implied_volatility"`
}
