// Package xquant provides the building blocks for implementing, running and
// evaluating quantitative trading strategies on daily market data.
//
// The core functionalities include:
//   - Portfolio Management: long and short positions plus cash, with exact
//     decimal arithmetic, valuation against market data, and buy/sell/short
//     transactions that enforce cash and position constraints.
//   - Market Data: securities with daily price histories, auxiliary datasets
//     (volume, market capitalization), a trading calendar derived from the
//     price series, and suspension handling for halted securities.
//   - Back-testing: an engine that replays a Strategy over a date range at a
//     configurable rebalancing frequency, recording the holdings history, the
//     equity curve and the implied trades.
//   - Performance Metrics: cumulative and annualized returns, drawdown,
//     volatility, Sharpe and information ratios, alpha, beta, win rates,
//     profit/loss ratio, turnover and tracking error, gathered in a Report.
//   - Data Persistence: encoding and decoding of market data, holdings and
//     trades to and from human-readable JSONL, and YAML run configurations.
//
// This package serves as the foundational logic for the `xq` command-line
// tool.
package xquant
