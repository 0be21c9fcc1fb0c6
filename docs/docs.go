// Package docs holds the OpenAPI document served at /swagger/.
// It mirrors the swag annotations on the handlers; regenerate with
// swag init -g cmd/globepay/main.go -o docs after changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/network": {
            "get": {
                "description": "Returns the cluster the ledger clients are connected to",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "network"
                ],
                "summary": "Active network",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.NetworkResponse"
                        }
                    }
                }
            },
            "put": {
                "description": "Points both ledger clients at another cluster and refreshes the wallet balance",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "network"
                ],
                "summary": "Switch network",
                "parameters": [
                    {
                        "description": "Target network",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.NetworkRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.NetworkResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/company": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Company profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.Company"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Save company profile",
                "parameters": [
                    {
                        "description": "Company",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.Company"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.Company"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/employees": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Employees",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/model.Employee"
                            }
                        }
                    }
                }
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Add employee",
                "parameters": [
                    {
                        "description": "Employee",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.EmployeeRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.Employee"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/employees/{id}": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Update employee",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Employee ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Employee",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.EmployeeRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.Employee"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "payroll"
                ],
                "summary": "Remove employee",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Employee ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/employees/{id}/toggle": {
            "post": {
                "description": "Switches an employee between active and inactive",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Toggle employee status",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Employee ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.Employee"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/runs": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Payroll runs",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 50,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 0,
                        "description": "Offset",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/model.PayrollRun"
                            }
                        }
                    }
                }
            },
            "post": {
                "description": "Pays every active employee from the connected wallet, one confirmed transfer at a time",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Run payroll",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.PayrollRun"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/payroll/summary": {
            "get": {
                "description": "Monthly totals of active employees per currency with the estimated fee",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payroll"
                ],
                "summary": "Payroll summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.PayrollSummary"
                        }
                    }
                }
            }
        },
        "/swap/quote": {
            "get": {
                "description": "Prices an amount at the current rate with price impact and estimated fee",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "swap"
                ],
                "summary": "Quote a swap",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Source currency",
                        "name": "from",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Target currency",
                        "name": "to",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Source amount",
                        "name": "amount",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.Quote"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/swap/rates": {
            "get": {
                "description": "Supported currencies and the listed pairs. Unlisted pairs trade at 1.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "swap"
                ],
                "summary": "Exchange rates",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.RatesResponse"
                        }
                    }
                }
            }
        },
        "/swaps": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "swap"
                ],
                "summary": "Swap history",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 50,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 0,
                        "description": "Offset",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/model.SwapRecord"
                            }
                        }
                    }
                }
            },
            "post": {
                "description": "Records a swap at the current rate. Depending on the configured mode nothing moves on chain, or the source amount is sent back to the wallet itself.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "swap"
                ],
                "summary": "Execute a swap",
                "parameters": [
                    {
                        "description": "Swap",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.SwapRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.SwapRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/transactions": {
            "get": {
                "description": "Gets list of wallet transactions with filtering capability (USDC and SOL)",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transactions"
                ],
                "summary": "Get wallet transactions",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Transaction type: DEBIT or CREDIT",
                        "name": "type",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Transaction ID",
                        "name": "txId",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Start date (YYYY-MM-DD)",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "End date (YYYY-MM-DD)",
                        "name": "to",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Minimum amount",
                        "name": "minAmount",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Maximum amount",
                        "name": "maxAmount",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Filter by currency: USDC or SOL",
                        "name": "currency",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 100,
                        "description": "Signatures to scan",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.HistoryResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/transactions/{hash}": {
            "get": {
                "description": "One transaction with the movements that concern the connected wallet",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transactions"
                ],
                "summary": "Get transaction",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Transaction signature",
                        "name": "hash",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.TransactionDetail"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/transfers": {
            "get": {
                "description": "Transfers sent by this service, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transfers"
                ],
                "summary": "Submitted transfers",
                "parameters": [
                    {
                        "type": "integer",
                        "default": 50,
                        "description": "Page size",
                        "name": "limit",
                        "in": "query"
                    },
                    {
                        "type": "integer",
                        "default": 0,
                        "description": "Offset",
                        "name": "offset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/model.TransactionRecord"
                            }
                        }
                    }
                }
            },
            "post": {
                "description": "Sends a transfer from the connected wallet. With wait (default) the response comes after the ledger confirms it.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "transfers"
                ],
                "summary": "Send SOL or USDC",
                "parameters": [
                    {
                        "description": "Payment data",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.TransferRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.TransactionRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet": {
            "get": {
                "description": "Returns the connection state and the last reconciled balance",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Wallet state",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.WalletState"
                        }
                    }
                }
            },
            "delete": {
                "description": "Disconnects and removes the keystore file",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Forget wallet",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.WalletState"
                        }
                    }
                }
            }
        },
        "/wallet/airdrop": {
            "post": {
                "description": "Funds the wallet from the cluster faucet (devnet and testnet only)",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Request airdrop",
                "parameters": [
                    {
                        "description": "Amount in SOL",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/model.AirdropRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.AirdropResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet/balance": {
            "get": {
                "description": "Reads the balance of one asset from the ledger, with its fiat value when a price is available",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Get wallet balance",
                "parameters": [
                    {
                        "type": "string",
                        "default": "SOL",
                        "description": "SOL or USDC",
                        "name": "asset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.BalanceResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet/balance/crosscheck": {
            "get": {
                "description": "Reads the balance from the SDK client and the fallback endpoint side by side",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Compare balance sources",
                "parameters": [
                    {
                        "type": "string",
                        "default": "SOL",
                        "description": "SOL or USDC",
                        "name": "asset",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.CrossCheckResponse"
                        }
                    }
                }
            }
        },
        "/wallet/connect": {
            "post": {
                "description": "Restores the stored wallet, or creates one when none exists, and refreshes its balance",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Connect wallet",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ConnectResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet/disconnect": {
            "post": {
                "description": "Clears the in-memory wallet state. The keystore file is kept.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Disconnect wallet",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.WalletState"
                        }
                    }
                }
            }
        },
        "/wallet/import": {
            "post": {
                "description": "Replaces the stored wallet with one restored from a BIP-39 mnemonic",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Import wallet",
                "parameters": [
                    {
                        "description": "Mnemonic",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ImportRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.ConnectResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet/new": {
            "post": {
                "description": "Replaces the stored wallet with a new one. The mnemonic is returned only in this response.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Create new wallet",
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/model.ConnectResponse"
                        }
                    }
                }
            }
        },
        "/wallet/qr": {
            "get": {
                "description": "PNG QR code of the connected address",
                "produces": [
                    "image/png"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Address QR code",
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/wallet/refresh": {
            "post": {
                "description": "Reconciles the wallet balance against the ledger now",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Refresh balance",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.WalletState"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/wallet/status": {
            "get": {
                "description": "Reports whether the account exists on chain and whether it has any transactions",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "wallet"
                ],
                "summary": "Account status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/model.AccountStatus"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "model.AccountStatus": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "balance": {
                    "type": "string"
                },
                "executable": {
                    "type": "boolean"
                },
                "exists": {
                    "type": "boolean"
                },
                "hasTransactions": {
                    "type": "boolean"
                },
                "lamports": {
                    "type": "integer"
                },
                "lastTransactionId": {
                    "type": "string"
                },
                "network": {
                    "type": "string"
                },
                "transactionCount": {
                    "type": "integer"
                }
            }
        },
        "model.AirdropRequest": {
            "type": "object",
            "required": [
                "amount"
            ],
            "properties": {
                "amount": {
                    "type": "string"
                }
            }
        },
        "model.AirdropResponse": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "signature": {
                    "type": "string"
                }
            }
        },
        "model.BalanceResponse": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "asset": {
                    "type": "string"
                },
                "balance": {
                    "type": "string"
                },
                "fiat": {
                    "type": "string"
                },
                "fiatRate": {
                    "type": "string"
                },
                "fiatValue": {
                    "type": "string"
                },
                "found": {
                    "description": "false when the account or token account does not exist yet",
                    "type": "boolean"
                },
                "observedAt": {
                    "type": "string"
                },
                "source": {
                    "type": "string"
                }
            }
        },
        "model.Company": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "country": {
                    "type": "string"
                },
                "currency": {
                    "type": "string",
                    "enum": [
                        "SOL",
                        "USDC"
                    ]
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "industry": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "payrollFrequency": {
                    "type": "string",
                    "enum": [
                        "weekly",
                        "biweekly",
                        "monthly"
                    ]
                },
                "timezone": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "wallet": {
                    "type": "string"
                }
            }
        },
        "model.ConnectResponse": {
            "type": "object",
            "properties": {
                "QR": {
                    "type": "string"
                },
                "created": {
                    "type": "boolean"
                },
                "mnemonic": {
                    "description": "returned once, on creation only",
                    "type": "string"
                },
                "state": {
                    "$ref": "#/definitions/model.WalletState"
                }
            }
        },
        "model.CrossCheckResponse": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "agree": {
                    "type": "boolean"
                },
                "asset": {
                    "type": "string"
                },
                "fallback": {
                    "$ref": "#/definitions/model.SourceBalance"
                },
                "primary": {
                    "$ref": "#/definitions/model.SourceBalance"
                }
            }
        },
        "model.Currency": {
            "type": "object",
            "properties": {
                "decimals": {
                    "type": "integer"
                },
                "kind": {
                    "description": "crypto, stablecoin or fiat",
                    "type": "string"
                },
                "onChain": {
                    "type": "boolean"
                },
                "symbol": {
                    "type": "string"
                }
            }
        },
        "model.Employee": {
            "type": "object",
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "position": {
                    "type": "string"
                },
                "salary": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/model.EmployeeStatus"
                },
                "wallet": {
                    "type": "string"
                }
            }
        },
        "model.EmployeeRequest": {
            "type": "object",
            "required": [
                "email",
                "name",
                "salary",
                "wallet"
            ],
            "properties": {
                "currency": {
                    "type": "string",
                    "enum": [
                        "SOL",
                        "USDC"
                    ]
                },
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "position": {
                    "type": "string"
                },
                "salary": {
                    "type": "string"
                },
                "wallet": {
                    "type": "string"
                }
            }
        },
        "model.EmployeeStatus": {
            "type": "string",
            "enum": [
                "active",
                "inactive"
            ],
            "x-enum-varnames": [
                "EmployeeActive",
                "EmployeeInactive"
            ]
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                }
            }
        },
        "model.HistoryResponse": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "total_income_USDC": {
                    "description": "USDC only",
                    "type": "string"
                },
                "total_spent_USDC": {
                    "description": "USDC only",
                    "type": "string"
                },
                "transactions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Transaction"
                    }
                }
            }
        },
        "model.ImportRequest": {
            "type": "object",
            "required": [
                "mnemonic"
            ],
            "properties": {
                "mnemonic": {
                    "type": "string"
                }
            }
        },
        "model.NetworkRequest": {
            "type": "object",
            "required": [
                "network"
            ],
            "properties": {
                "network": {
                    "type": "string"
                }
            }
        },
        "model.NetworkResponse": {
            "type": "object",
            "properties": {
                "fallbackUrl": {
                    "type": "string"
                },
                "network": {
                    "type": "string"
                },
                "rpcUrl": {
                    "type": "string"
                },
                "usdcMint": {
                    "type": "string"
                }
            }
        },
        "model.PayrollLine": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "employeeId": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "hash": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/model.RecordStatus"
                },
                "wallet": {
                    "type": "string"
                }
            }
        },
        "model.PayrollRun": {
            "type": "object",
            "properties": {
                "finishedAt": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "lines": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.PayrollLine"
                    }
                },
                "startedAt": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/model.PayrollRunStatus"
                }
            }
        },
        "model.PayrollRunStatus": {
            "type": "string",
            "enum": [
                "completed",
                "partial",
                "failed"
            ],
            "x-enum-varnames": [
                "RunCompleted",
                "RunPartial",
                "RunFailed"
            ]
        },
        "model.PayrollSummary": {
            "type": "object",
            "properties": {
                "activeEmployees": {
                    "type": "integer"
                },
                "employees": {
                    "type": "integer"
                },
                "estimatedFee": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                },
                "monthlyTotal": {
                    "description": "per currency",
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "model.Quote": {
            "type": "object",
            "properties": {
                "estimatedFee": {
                    "type": "string"
                },
                "fromAmount": {
                    "type": "string"
                },
                "fromCurrency": {
                    "type": "string"
                },
                "listed": {
                    "description": "false when the pair is missing and the rate defaulted to 1",
                    "type": "boolean"
                },
                "priceImpact": {
                    "type": "string"
                },
                "quotedAt": {
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                },
                "toAmount": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                }
            }
        },
        "model.RateEntry": {
            "type": "object",
            "properties": {
                "pair": {
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                }
            }
        },
        "model.RatesResponse": {
            "type": "object",
            "properties": {
                "currencies": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Currency"
                    }
                },
                "rates": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.RateEntry"
                    }
                }
            }
        },
        "model.RecordStatus": {
            "type": "string",
            "enum": [
                "pending",
                "success",
                "failed"
            ],
            "x-enum-varnames": [
                "StatusPending",
                "StatusSuccess",
                "StatusFailed"
            ]
        },
        "model.SourceBalance": {
            "type": "object",
            "properties": {
                "balance": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "found": {
                    "type": "boolean"
                }
            }
        },
        "model.SwapRecord": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "asset": {
                    "type": "string"
                },
                "confirmed": {
                    "description": "true only when finality was awaited",
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                },
                "fromAmount": {
                    "type": "string"
                },
                "fromCurrency": {
                    "type": "string"
                },
                "hash": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "mode": {
                    "description": "\"simulated\" or \"self-transfer\"",
                    "type": "string"
                },
                "rate": {
                    "type": "number"
                },
                "recipient": {
                    "type": "string"
                },
                "sender": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/model.RecordStatus"
                },
                "timestamp": {
                    "type": "string"
                },
                "toAmount": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                }
            }
        },
        "model.SwapRequest": {
            "type": "object",
            "required": [
                "amount",
                "fromCurrency",
                "toCurrency"
            ],
            "properties": {
                "amount": {
                    "type": "string"
                },
                "fromCurrency": {
                    "type": "string"
                },
                "toCurrency": {
                    "type": "string"
                }
            }
        },
        "model.Transaction": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "blockNumber": {
                    "type": "integer"
                },
                "currency": {
                    "description": "\"USDC\" or \"SOL\"",
                    "type": "string"
                },
                "feeSOL": {
                    "description": "SOL we paid as fee",
                    "type": "string"
                },
                "from": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "to": {
                    "type": "string"
                },
                "txId": {
                    "type": "string"
                },
                "type": {
                    "$ref": "#/definitions/model.TransactionType"
                }
            }
        },
        "model.TransactionDetail": {
            "type": "object",
            "properties": {
                "feeSOL": {
                    "type": "string"
                },
                "movements": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.Transaction"
                    }
                },
                "slot": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                },
                "txId": {
                    "type": "string"
                }
            }
        },
        "model.TransactionRecord": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string"
                },
                "asset": {
                    "type": "string"
                },
                "confirmed": {
                    "description": "true only when finality was awaited",
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                },
                "hash": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "recipient": {
                    "type": "string"
                },
                "sender": {
                    "type": "string"
                },
                "status": {
                    "$ref": "#/definitions/model.RecordStatus"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "model.TransactionType": {
            "type": "string",
            "enum": [
                "DEBIT",
                "CREDIT"
            ],
            "x-enum-varnames": [
                "TransactionTypeDebit",
                "TransactionTypeCredit"
            ]
        },
        "model.TransferRequest": {
            "type": "object",
            "required": [
                "amount",
                "recipient"
            ],
            "properties": {
                "amount": {
                    "type": "string"
                },
                "asset": {
                    "type": "string",
                    "enum": [
                        "SOL",
                        "USDC",
                        "sol",
                        "usdc"
                    ]
                },
                "recipient": {
                    "type": "string"
                },
                "wait": {
                    "description": "defaults to true",
                    "type": "boolean"
                }
            }
        },
        "model.WalletState": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "asset": {
                    "type": "string"
                },
                "balance": {
                    "type": "string"
                },
                "connected": {
                    "type": "boolean"
                },
                "lastError": {
                    "type": "string"
                },
                "network": {
                    "type": "string"
                },
                "refreshedAt": {
                    "type": "string"
                },
                "source": {
                    "type": "string"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GlobePay API",
	Description:      "Solana wallet service with transfers, currency swaps and payroll.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
