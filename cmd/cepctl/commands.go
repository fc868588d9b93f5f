package main

import (
	"strings"

	"cep-locator/internal/models"
	"cep-locator/internal/services"
	"cep-locator/internal/states"

	"github.com/spf13/cobra"
)

func (a *app) cepCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cep <cep>",
		Short:   "Busca um endereço pelo CEP",
		Example: "  cepctl cep 01001-000",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.addresses().LookupCEP(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), addr)
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <uf> <logradouro...>",
		Short:   "Busca endereços por UF e logradouro",
		Example: "  cepctl search SP avenida paulista",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.addresses().SearchStreet(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
}

func (a *app) locateCmd() *cobra.Command {
	var draggable bool
	cmd := &cobra.Command{
		Use:   "locate <cep>",
		Short: "Busca o CEP e geocodifica o endereço encontrado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.addresses().LookupCEP(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			geocoder := services.NewGeocoder(services.GeocoderOptions{
				Kind:         a.cfg.Geocoder,
				TestMode:     a.cfg.TestMode,
				MapboxURL:    a.cfg.MapboxURL,
				MapboxToken:  a.cfg.MapboxToken,
				NominatimURL: a.cfg.NominatimURL,
			}, a.client, a.log)
			maps := services.NewMapService(geocoder, services.MapOptions{
				Style:       a.cfg.MapStyle,
				Zoom:        a.cfg.MapZoom,
				MapboxToken: a.cfg.MapboxToken,
				MapboxURL:   a.cfg.MapboxURL,
			}, a.log)

			view, err := maps.Render(cmd.Context(), models.MapRequest{Address: addr.Label(), Data: addr, Draggable: draggable})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&draggable, "draggable", false, "marcador arrastável")
	return cmd
}

func (a *app) statesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "Lista as UFs aceitas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), states.All())
		},
	}
}
