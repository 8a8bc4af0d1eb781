// Package listing implementa el flujo lista/filtro/paginación que comparten
// los catálogos (productos, proyectos, inversiones, blog):
//
//   - Controller mantiene los filtros y deriva el Descriptor de la consulta.
//   - Binding trae la página del Descriptor actual y descarta respuestas viejas.
//   - Optimistic aplica ediciones locales al instante y las confirma con debounce.
//   - Adapter convierte elementos en Cards y delega sus acciones en los anteriores.
//
// Todo es genérico sobre el tipo de elemento T, los criterios F y el patch P.
package listing
