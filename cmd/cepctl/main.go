// cepctl consulta CEPs e endereços pelo terminal, usando os mesmos serviços da API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cep-locator/internal/cache"
	"cep-locator/internal/config"
	"cep-locator/internal/logger"
	"cep-locator/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app guarda o que os subcomandos compartilham
type app struct {
	verbose bool
	cfg     config.Config
	log     *zap.Logger
	client  *http.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cepctl",
		Short: "Consulta CEPs, endereços e coordenadas",
		Long: `Consulta o ViaCEP por CEP ou por UF + logradouro e geocodifica o resultado.

Subcomandos:
  cep     - busca um endereço pelo CEP
  search  - busca endereços por UF e logradouro
  locate  - busca o CEP e devolve a visualização do mapa
  states  - lista as UFs aceitas`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load("")
			log, err := logger.New(a.cfg.Env, a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			a.client = &http.Client{Timeout: a.cfg.HTTPTimeout}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log detalhado")

	root.AddCommand(a.cepCmd(), a.searchCmd(), a.locateCmd(), a.statesCmd())
	return root
}

func (a *app) addresses() *services.AddressService {
	return services.NewAddressService(a.cfg.ViaCEPURL, a.client, cache.Nop{}, a.log)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
