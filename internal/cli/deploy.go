package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bidon15/deployctl/internal/artifact"
	"github.com/Bidon15/deployctl/internal/config"
	"github.com/Bidon15/deployctl/internal/deploy"
	"github.com/Bidon15/deployctl/internal/report"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a compiled contract artifact",
	Long: `Deploy a compiled smart-contract artifact to an EVM network.

The artifact JSON must carry the creation bytecode and the ABI. Constructor
arguments are checked against the ABI before anything is sent, and the run
fails with a typed reason if any lifecycle step goes wrong.

Examples:
  deployctl deploy --artifact build/Registry.json --rpc-url http://localhost:8545
  deployctl deploy --artifact build/Token.json \
    --constructor-arg 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 \
    --gas-price 0 --report deploy-report.json`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().String("config", "", "path to a deployctl config file")
	deployCmd.Flags().String("rpc-url", "", "JSON-RPC endpoint of the target network")
	deployCmd.Flags().String("artifact", "", "path to the compiled contract artifact JSON")
	deployCmd.Flags().StringArray("constructor-arg", nil, "constructor argument in ABI order (repeatable)")
	deployCmd.Flags().Uint64("gas-limit", 10_000_000, "gas limit for the creation transaction (0 asks the node to estimate)")
	deployCmd.Flags().Int64("gas-price", 0, "gas price in wei (0 is valid on fee-less networks)")
	deployCmd.Flags().Uint64("chain-id", 0, "expected chain ID (0 skips the check)")
	deployCmd.Flags().Duration("timeout", 300*time.Second, "how long to wait for the transaction receipt")
	deployCmd.Flags().String("report", "", "write a JSON report of the run to this path")
	deployCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	v := config.Load(configFile)
	_ = v.BindPFlag("rpc_url", flags.Lookup("rpc-url"))
	_ = v.BindPFlag("artifact", flags.Lookup("artifact"))
	_ = v.BindPFlag("constructor_args", flags.Lookup("constructor-arg"))
	_ = v.BindPFlag("gas_limit", flags.Lookup("gas-limit"))
	_ = v.BindPFlag("gas_price", flags.Lookup("gas-price"))
	_ = v.BindPFlag("expected_chain_id", flags.Lookup("chain-id"))
	_ = v.BindPFlag("confirmation_timeout", flags.Lookup("timeout"))
	_ = v.BindPFlag("report", flags.Lookup("report"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	cfg, err := config.Unmarshal(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	art, err := artifact.Load(cfg.ArtifactPath)
	if err != nil {
		return err
	}
	contractABI, err := art.ParseABI()
	if err != nil {
		return fmt.Errorf("parse artifact abi: %w", err)
	}
	bytecode, err := art.BytecodeBytes()
	if err != nil {
		return err
	}
	constructorArgs, err := artifact.CoerceArgs(contractABI.Constructor.Inputs, cfg.ConstructorArgs)
	if err != nil {
		return err
	}

	deployCfg := deploy.Config{
		RPCURL:              cfg.RPCURL,
		PrivateKey:          cfg.PrivateKey,
		Bytecode:            bytecode,
		ABI:                 contractABI,
		ConstructorArgs:     constructorArgs,
		GasLimit:            cfg.GasLimit,
		GasPrice:            big.NewInt(cfg.GasPrice),
		ConfirmationTimeout: cfg.ConfirmationTimeout,
		ReceiptPollInterval: cfg.ReceiptPollInterval,
	}
	if cfg.ExpectedChainID != 0 {
		deployCfg.ExpectedChainID = new(big.Int).SetUint64(cfg.ExpectedChainID)
	}

	start := time.Now()
	orchestrator := deploy.NewOrchestrator(deployCfg, deploy.NewEthClientFactory(), logger)
	result, err := orchestrator.Deploy(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("Contract deployed")
	fmt.Printf("  Address:   %s\n", result.ContractAddress.Hex())
	fmt.Printf("  Code size: %d bytes\n", result.DeployedCodeSize)
	fmt.Printf("  TX hash:   %s\n", result.TxHash.Hex())
	fmt.Printf("  Block:     %d\n", result.BlockNumber)
	fmt.Printf("  Gas used:  %d\n", result.GasUsed)

	if cfg.ReportPath != "" {
		rep := report.New(result, cfg.RPCURL, art.ContractName, time.Since(start))
		if err := rep.Write(cfg.ReportPath); err != nil {
			return err
		}
		fmt.Printf("  Report:    %s\n", cfg.ReportPath)
	}
	return nil
}
